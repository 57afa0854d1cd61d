package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	KindOrderStatus = "order_status"
	KindBulk        = "bulk_order_update"
	KindCustom      = "custom_message"

	DedupWindow       = 30 * time.Second
	lookupConcurrency = 8
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNoOrders     = errors.New("no orders selected")
)

// Directory resolves orders and customers to push device ids.
type Directory interface {
	UserIDForOrder(ctx context.Context, orderID string) (string, error)
	PlayerIDForUser(ctx context.Context, userID string) (string, error)
}

// Journal records dispatched notifications.
type Journal interface {
	Record(ctx context.Context, kind, restaurantName string, recipients int, meta map[string]any) error
	SentStatusWithin(ctx context.Context, kind, orderID, status string, window time.Duration) (bool, error)
}

type Dispatcher struct {
	sender  Sender
	dir     Directory
	journal Journal // optional
}

func NewDispatcher(sender Sender, dir Directory, journal Journal) *Dispatcher {
	return &Dispatcher{sender: sender, dir: dir, journal: journal}
}

// NotifyStatus tells one customer about a decision on their order. It
// returns false without error when nothing was sent: the customer has no
// device or the same notification went out within DedupWindow.
func (d *Dispatcher) NotifyStatus(ctx context.Context, userID, orderID, status, restaurantName string) (bool, error) {
	logger := log.WithFields(log.Fields{"order_id": orderID, "status": status})

	if d.journal != nil {
		dup, err := d.journal.SentStatusWithin(ctx, KindOrderStatus, orderID, status, DedupWindow)
		if err != nil {
			logger.WithError(err).Warn("[notify] dedup check failed")
		} else if dup {
			logger.Debug("[notify] duplicate status notification suppressed")
			return false, nil
		}
	}

	playerID, err := d.dir.PlayerIDForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if playerID == "" {
		logger.WithField("user_id", userID).Warn("[notify] no push device for user")
		return false, nil
	}

	heading, content := StatusMessage(restaurantName, status)
	n := newNotification([]string{playerID}, heading, content, map[string]any{
		"orderId": orderID,
		"status":  status,
	})
	if err := d.sender.Send(ctx, n); err != nil {
		return false, err
	}
	d.record(ctx, KindOrderStatus, restaurantName, 1, map[string]any{"orderId": orderID, "status": status})
	logger.Info("[notify] status notification sent")
	return true, nil
}

// NotifyBulk sends one notification to the customers behind the orders.
// Orders whose lookup fails are logged and skipped. It returns the number of
// distinct devices addressed.
func (d *Dispatcher) NotifyBulk(ctx context.Context, orderIDs []string, status, restaurantName string) (int, error) {
	playerIDs := d.resolvePlayers(ctx, orderIDs)
	if len(playerIDs) == 0 {
		log.WithField("orders", len(orderIDs)).Warn("[notify] no push devices for bulk update")
		return 0, nil
	}

	heading, content := StatusMessage(restaurantName, status)
	n := newNotification(playerIDs, heading, content, map[string]any{
		"status": status,
		"type":   TypeBulkOrderUpdate,
	})
	if err := d.sender.Send(ctx, n); err != nil {
		return 0, err
	}
	d.record(ctx, KindBulk, restaurantName, len(playerIDs), map[string]any{"status": status, "orders": len(orderIDs)})
	log.WithFields(log.Fields{"status": status, "recipients": len(playerIDs)}).Info("[notify] bulk notification sent")
	return len(playerIDs), nil
}

// NotifyCustom sends a free-text message to the customers behind the orders.
// It returns false when none of them has a device.
func (d *Dispatcher) NotifyCustom(ctx context.Context, orderIDs []string, message, restaurantName string) (bool, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return false, ErrEmptyMessage
	}
	if len(orderIDs) == 0 {
		return false, ErrNoOrders
	}
	playerIDs := d.resolvePlayers(ctx, orderIDs)
	if len(playerIDs) == 0 {
		log.WithField("orders", len(orderIDs)).Warn("[notify] no push devices for custom message")
		return false, nil
	}

	n := newNotification(playerIDs, CustomHeading(restaurantName), message, map[string]any{
		"type":           TypeCustomMessage,
		"restaurantName": restaurantName,
	})
	if err := d.sender.Send(ctx, n); err != nil {
		return false, err
	}
	d.record(ctx, KindCustom, restaurantName, len(playerIDs), map[string]any{"orders": len(orderIDs)})
	log.WithField("recipients", len(playerIDs)).Info("[notify] custom message sent")
	return true, nil
}

// resolvePlayers maps orders to distinct player ids, keeping the order of
// first appearance.
func (d *Dispatcher) resolvePlayers(ctx context.Context, orderIDs []string) []string {
	found := make([]string, len(orderIDs))
	var g errgroup.Group
	g.SetLimit(lookupConcurrency)
	for i, orderID := range orderIDs {
		g.Go(func() error {
			logger := log.WithField("order_id", orderID)
			userID, err := d.dir.UserIDForOrder(ctx, orderID)
			if err != nil {
				logger.WithError(err).Warn("[notify] order lookup failed")
				return nil
			}
			playerID, err := d.dir.PlayerIDForUser(ctx, userID)
			if err != nil {
				logger.WithError(err).Warn("[notify] player lookup failed")
				return nil
			}
			if playerID == "" {
				logger.Debug("[notify] customer has no push device")
				return nil
			}
			found[i] = playerID
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	var out []string
	for _, p := range found {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func (d *Dispatcher) record(ctx context.Context, kind, restaurantName string, recipients int, meta map[string]any) {
	if d.journal == nil {
		return
	}
	if err := d.journal.Record(ctx, kind, restaurantName, recipients, meta); err != nil {
		log.WithError(err).WithField("kind", kind).Warn("[notify] journal write failed")
	}
}
