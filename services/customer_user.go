package services

import (
	"context"
	"errors"

	"yumzy-partner/db"

	"github.com/jackc/pgx/v5"
)

// PlayerIDForUser returns the customer's push device id, or "" when the
// customer is unknown or has not registered a device.
func PlayerIDForUser(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	var playerID *string
	err := db.Pool.QueryRow(ctx, `SELECT onesignal_player_id FROM users WHERE id = $1`, userID).Scan(&playerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	if playerID == nil {
		return "", nil
	}
	return *playerID, nil
}

// PlayerDirectory resolves orders to customer devices through the database.
type PlayerDirectory struct{}

func (PlayerDirectory) UserIDForOrder(ctx context.Context, orderID string) (string, error) {
	return UserIDForOrder(ctx, orderID)
}

func (PlayerDirectory) PlayerIDForUser(ctx context.Context, userID string) (string, error) {
	return PlayerIDForUser(ctx, userID)
}
