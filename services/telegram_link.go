package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"yumzy-partner/db"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const LinkCodeTTL = 15 * time.Minute

func normalizeLinkCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// linkCodeLookupKey is the indexed SHA-256 of the code. It narrows a
// redemption to one row before the bcrypt check.
func linkCodeLookupKey(code string) string {
	sum := sha256.Sum256([]byte(normalizeLinkCode(code)))
	return hex.EncodeToString(sum[:])
}

// CreateTelegramLinkCode issues a one-time code the partner sends to the bot
// as "/start <code>". Earlier unused codes of the restaurant stop working.
// Only hashes are stored. Do not log the code.
func CreateTelegramLinkCode(ctx context.Context, restaurantID string) (code string, expiresAt time.Time, err error) {
	if _, err := GetRestaurant(ctx, restaurantID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, ErrNoProfile
		}
		return "", time.Time{}, err
	}
	code, err = GenerateLinkCode()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("hash code: %w", err)
	}
	expiresAt = time.Now().Add(LinkCodeTTL)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE telegram_link_codes SET used_at = now()
		WHERE restaurant_id = $1 AND used_at IS NULL`,
		restaurantID,
	); err != nil {
		return "", time.Time{}, fmt.Errorf("revoke codes: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO telegram_link_codes (restaurant_id, lookup_key, code_hash, expires_at) VALUES ($1, $2, $3, $4)`,
		restaurantID, linkCodeLookupKey(code), string(hash), expiresAt,
	); err != nil {
		return "", time.Time{}, fmt.Errorf("insert code: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", time.Time{}, fmt.Errorf("commit tx: %w", err)
	}
	return code, expiresAt, nil
}

// RedeemTelegramLinkCode binds the chat to the restaurant whose unexpired code
// matches. Failed attempts are throttled per Telegram user.
func RedeemTelegramLinkCode(ctx context.Context, code string, chatID, tgUserID int64) (restaurantID string, err error) {
	subject := strconv.FormatInt(tgUserID, 10)
	wait, err := LoginThrottleWaitSeconds(ctx, subject, ThrottleChannelTelegram)
	if err != nil {
		return "", err
	}
	if wait > 0 {
		return "", &ThrottledError{WaitSeconds: wait}
	}
	code = normalizeLinkCode(code)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var codeID int64
	var hash string
	err = tx.QueryRow(ctx, `
		SELECT id, restaurant_id, code_hash FROM telegram_link_codes
		WHERE lookup_key = $1 AND used_at IS NULL AND expires_at > now()
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE`,
		linkCodeLookupKey(code),
	).Scan(&codeID, &restaurantID, &hash)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("find code: %w", err)
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		if _, rerr := RecordLoginFailed(ctx, subject, ThrottleChannelTelegram); rerr != nil {
			return "", rerr
		}
		return "", ErrInvalidCredentials
	}

	if _, err := tx.Exec(ctx, `UPDATE telegram_link_codes SET used_at = now() WHERE id = $1`, codeID); err != nil {
		return "", err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO telegram_links (chat_id, restaurant_id, tg_user_id) VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO UPDATE SET restaurant_id = EXCLUDED.restaurant_id, tg_user_id = EXCLUDED.tg_user_id, linked_at = now()`,
		chatID, restaurantID, tgUserID,
	)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	if err := RecordLoginSuccess(ctx, subject, ThrottleChannelTelegram); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("[link] throttle reset failed")
	}
	return restaurantID, nil
}

// RestaurantForChat returns the restaurant linked to the chat, or ErrNotFound.
func RestaurantForChat(ctx context.Context, chatID int64) (string, error) {
	var rid string
	err := db.Pool.QueryRow(ctx, `SELECT restaurant_id FROM telegram_links WHERE chat_id = $1`, chatID).Scan(&rid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return rid, nil
}

// ChatsForRestaurant lists every chat linked to the restaurant.
func ChatsForRestaurant(ctx context.Context, restaurantID string) ([]int64, error) {
	rows, err := db.Pool.Query(ctx, `SELECT chat_id FROM telegram_links WHERE restaurant_id = $1 ORDER BY linked_at`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func UnlinkChat(ctx context.Context, chatID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM telegram_links WHERE chat_id = $1`, chatID)
	return err
}
