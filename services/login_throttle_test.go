package services

import (
	"context"
	"errors"
	"testing"

	"yumzy-partner/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestCooldownSecondsForFailCount(t *testing.T) {
	tests := []struct {
		failCount int
		want      int
	}{
		{0, 1},
		{1, 2},
		{2, 4},
		{3, 8},
		{4, 16},
		{5, 30}, // 32 capped
		{6, 30},
		{10, 30},
	}
	for _, tt := range tests {
		got := CooldownSecondsForFailCount(tt.failCount)
		if got != tt.want {
			t.Errorf("CooldownSecondsForFailCount(%d) = %d, want %d", tt.failCount, got, tt.want)
		}
	}
}

func TestLoginThrottle_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	const subject = "throttle-test@yumzy.local"
	channel := ThrottleChannelPassword

	defer func() {
		_ = RecordLoginSuccess(ctx, subject, channel)
	}()

	_ = RecordLoginSuccess(ctx, subject, channel)
	wait, err := LoginThrottleWaitSeconds(ctx, subject, channel)
	if err != nil {
		t.Fatalf("LoginThrottleWaitSeconds after success: %v", err)
	}
	if wait != 0 {
		t.Errorf("after success: wait = %d, want 0", wait)
	}

	cooldown, err := RecordLoginFailed(ctx, subject, channel)
	if err != nil {
		t.Fatalf("RecordLoginFailed: %v", err)
	}
	if cooldown != 2 {
		t.Errorf("first failure cooldown = %d, want 2", cooldown)
	}
	wait, _ = LoginThrottleWaitSeconds(ctx, subject, channel)
	if wait <= 0 || wait > 2 {
		t.Errorf("after one fail: wait = %d, want 1..2", wait)
	}

	// other channels are independent
	other, _ := LoginThrottleWaitSeconds(ctx, subject, ThrottleChannelTelegram)
	if other != 0 {
		t.Errorf("telegram channel wait = %d, want 0", other)
	}

	for i := 0; i < 8; i++ {
		_, _ = RecordLoginFailed(ctx, subject, channel)
	}
	wait, _ = LoginThrottleWaitSeconds(ctx, subject, channel)
	if wait > 30 {
		t.Errorf("after 8 fails: wait = %d, want <= 30 (cap)", wait)
	}

	_ = RecordLoginSuccess(ctx, subject, channel)
	wait, _ = LoginThrottleWaitSeconds(ctx, subject, channel)
	if wait != 0 {
		t.Errorf("after reset: wait = %d, want 0", wait)
	}
}

func TestWaitFromRemaining(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name      string
		remaining *float64
		want      int
	}{
		{"no cooldown", nil, 0},
		{"expired", f(-3.2), 0},
		{"zero", f(0), 0},
		{"fraction rounds up", f(0.1), 1},
		{"whole seconds", f(4), 4},
		{"just over", f(29.01), 30},
	}
	for _, tt := range tests {
		if got := waitFromRemaining(tt.remaining); got != tt.want {
			t.Errorf("%s: waitFromRemaining = %d, want %d", tt.name, got, tt.want)
		}
	}
}

// An unreachable database must surface as an error, not as "no cooldown".
func TestLoginThrottleStorageErrorsAreReturned(t *testing.T) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, "postgres://nobody@127.0.0.1:1/none?connect_timeout=1")
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	prev := db.Pool
	db.Pool = pool
	defer func() {
		db.Pool = prev
		pool.Close()
	}()

	if _, err := LoginThrottleWaitSeconds(ctx, "down@yumzy.local", ThrottleChannelPassword); err == nil {
		t.Error("LoginThrottleWaitSeconds returned nil error with the database down")
	}
	_, err = VerifyPartnerPassword(ctx, "down@yumzy.local", "whatever-password")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("VerifyPartnerPassword err = %v, want a storage error", err)
	}
	if _, err := RedeemTelegramLinkCode(ctx, "ABCDEFGH", 1, 1); err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("RedeemTelegramLinkCode err = %v, want a storage error", err)
	}
}
