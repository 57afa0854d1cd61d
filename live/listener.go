package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const (
	Channel = "order_events"

	OpInsert = "insert"
	OpUpdate = "update"
)

// Event is an order change published by the orders trigger.
type Event struct {
	Op           string `json:"op"`
	OrderID      string `json:"order_id"`
	RestaurantID string `json:"restaurant_id"`
	Status       string `json:"status"`
	Category     string `json:"category"`
}

func ParseEvent(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, fmt.Errorf("parse order event: %w", err)
	}
	if e.OrderID == "" || e.RestaurantID == "" {
		return Event{}, errors.New("order event without order or restaurant id")
	}
	return e, nil
}

// Listener holds one pooled connection on LISTEN and republishes
// notifications to the hub, reconnecting after failures.
type Listener struct {
	pool  *pgxpool.Pool
	hub   *Hub
	retry time.Duration
}

func NewListener(pool *pgxpool.Pool, hub *Hub) *Listener {
	return &Listener{pool: pool, hub: hub, retry: 2 * time.Second}
}

// Run blocks until ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		log.WithError(err).Warn("[live] listener stopped, reconnecting")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.retry):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.WithField("channel", Channel).Info("[live] listening for order events")

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		e, err := ParseEvent([]byte(n.Payload))
		if err != nil {
			log.WithError(err).Warn("[live] bad notification payload")
			continue
		}
		log.WithFields(log.Fields{"order_id": e.OrderID, "op": e.Op}).Debug("[live] order event")
		l.hub.Publish(e)
	}
}
