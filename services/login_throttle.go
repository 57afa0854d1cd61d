package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"yumzy-partner/db"

	"github.com/jackc/pgx/v5"
)

// Throttle channels keep password logins and Telegram link attempts apart for
// the same subject.
const (
	ThrottleChannelPassword    = "password"
	ThrottleChannelTelegram    = "telegram_link"
	ThrottleCooldownCapSeconds = 30
)

// LoginThrottleWaitSeconds returns the remaining cooldown for the subject on
// the channel, rounded up. Storage errors are returned, never treated as "no
// cooldown".
func LoginThrottleWaitSeconds(ctx context.Context, subject, channel string) (int, error) {
	var remaining *float64
	err := db.Pool.QueryRow(ctx, `
		SELECT EXTRACT(EPOCH FROM cooldown_until - now())::float8
		FROM login_throttle WHERE subject = $1 AND channel = $2`,
		subject, channel,
	).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read throttle: %w", err)
	}
	return waitFromRemaining(remaining), nil
}

func waitFromRemaining(remaining *float64) int {
	if remaining == nil || *remaining <= 0 {
		return 0
	}
	return int(math.Ceil(*remaining))
}

// RecordLoginFailed counts a failure and starts the cooldown for the new fail
// count. It returns the cooldown in seconds.
func RecordLoginFailed(ctx context.Context, subject, channel string) (int, error) {
	var fails int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO login_throttle (subject, channel, fail_count, last_failed_at, updated_at)
		VALUES ($1, $2, 1, now(), now())
		ON CONFLICT (subject, channel) DO UPDATE SET
			fail_count = login_throttle.fail_count + 1,
			last_failed_at = now(),
			updated_at = now()
		RETURNING fail_count`,
		subject, channel,
	).Scan(&fails)
	if err != nil {
		return 0, fmt.Errorf("record failure: %w", err)
	}
	wait := CooldownSecondsForFailCount(fails)
	_, err = db.Pool.Exec(ctx, `
		UPDATE login_throttle SET cooldown_until = now() + make_interval(secs => $3)
		WHERE subject = $1 AND channel = $2`,
		subject, channel, float64(wait),
	)
	if err != nil {
		return 0, fmt.Errorf("set cooldown: %w", err)
	}
	return wait, nil
}

// RecordLoginSuccess forgets every failure of the subject on the channel.
func RecordLoginSuccess(ctx context.Context, subject, channel string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM login_throttle WHERE subject = $1 AND channel = $2`, subject, channel)
	return err
}

// CooldownSecondsForFailCount returns min(30, 2^failCount).
func CooldownSecondsForFailCount(failCount int) int {
	switch {
	case failCount <= 0:
		return 1
	case failCount >= 5:
		return ThrottleCooldownCapSeconds
	}
	return 1 << failCount
}
