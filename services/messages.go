package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"yumzy-partner/db"
)

// NotificationJournal persists every push the dispatcher sends.
type NotificationJournal struct{}

// Record stores one dispatched notification. recipients is the number of
// devices addressed.
func (NotificationJournal) Record(ctx context.Context, kind, restaurantName string, recipients int, meta map[string]any) error {
	metaJSON := "{}"
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal meta: %w", err)
		}
		metaJSON = string(b)
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO notification_log (kind, restaurant_name, recipients, meta)
		VALUES ($1, $2, $3, $4::jsonb)`,
		kind, restaurantName, recipients, metaJSON,
	)
	return err
}

// SentStatusWithin reports whether the same order/status notification was
// already sent inside the window.
func (NotificationJournal) SentStatusWithin(ctx context.Context, kind, orderID, status string, window time.Duration) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notification_log
		WHERE kind = $1 AND meta->>'orderId' = $2 AND meta->>'status' = $3
		  AND created_at > now() - make_interval(secs => $4)`,
		kind, orderID, status, window.Seconds(),
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
