package services

import (
	"context"
	"errors"

	"yumzy-partner/db"

	"github.com/jackc/pgx/v5"
)

// GetOrderMessagePointer returns the message id of the order's card in the chat.
// ok is false if no pointer exists.
func GetOrderMessagePointer(ctx context.Context, orderID string, chatID int64) (messageID int, ok bool, err error) {
	err = db.Pool.QueryRow(ctx, `
		SELECT message_id FROM order_message_pointers WHERE order_id = $1 AND chat_id = $2`,
		orderID, chatID,
	).Scan(&messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return messageID, true, nil
}

// UpsertOrderMessagePointer inserts or updates the message pointer for (order_id, chat_id).
func UpsertOrderMessagePointer(ctx context.Context, orderID string, chatID int64, messageID int) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO order_message_pointers (order_id, chat_id, message_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (order_id, chat_id) DO UPDATE SET message_id = EXCLUDED.message_id, updated_at = now()`,
		orderID, chatID, messageID,
	)
	return err
}

// ListOrderMessagePointers returns every chat holding a card for the order.
func ListOrderMessagePointers(ctx context.Context, orderID string) (map[int64]int, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT chat_id, message_id FROM order_message_pointers WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := make(map[int64]int)
	for rows.Next() {
		var chatID int64
		var msgID int
		if err := rows.Scan(&chatID, &msgID); err != nil {
			return nil, err
		}
		res[chatID] = msgID
	}
	return res, rows.Err()
}
