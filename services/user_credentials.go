package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yumzy-partner/db"
	"yumzy-partner/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLen = 8

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func GetPartner(ctx context.Context, id string) (*models.Partner, error) {
	var p models.Partner
	err := db.Pool.QueryRow(ctx, `SELECT id, email, display_name FROM partners WHERE id = $1`, id).
		Scan(&p.ID, &p.Email, &p.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpsertGooglePartner signs in a Google identity. The partner is found by
// Google subject first and follows the account's current email. Otherwise an
// email-only account is linked to the subject, or a new partner is created.
// An email already linked to a different subject is a conflict.
func UpsertGooglePartner(ctx context.Context, subject, email, displayName string) (*models.Partner, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: missing google subject", ErrInvalid)
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalid)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var p models.Partner
	err = tx.QueryRow(ctx, `
		SELECT id, email, display_name FROM partners WHERE google_sub = $1 FOR UPDATE`,
		subject,
	).Scan(&p.ID, &p.Email, &p.DisplayName)
	switch {
	case err == nil:
		if p.Email != email {
			if _, err := tx.Exec(ctx, `UPDATE partners SET email = $1, updated_at = now() WHERE id = $2`, email, p.ID); err != nil {
				if isUniqueViolation(err) {
					return nil, fmt.Errorf("%w: %s belongs to another partner", ErrConflict, email)
				}
				return nil, fmt.Errorf("update partner email: %w", err)
			}
			p.Email = email
		}
	case errors.Is(err, pgx.ErrNoRows):
		if err := linkGooglePartner(ctx, tx, &p, subject, email, displayName); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("find partner by subject: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &p, nil
}

// linkGooglePartner attaches the subject to the partner registered under the
// email, or creates the partner.
func linkGooglePartner(ctx context.Context, tx pgx.Tx, p *models.Partner, subject, email, displayName string) error {
	var existingSub *string
	err := tx.QueryRow(ctx, `
		SELECT id, email, display_name, google_sub FROM partners WHERE email = $1 FOR UPDATE`,
		email,
	).Scan(&p.ID, &p.Email, &p.DisplayName, &existingSub)
	switch {
	case err == nil:
		if existingSub != nil {
			return fmt.Errorf("%w: %s is linked to a different Google account", ErrConflict, email)
		}
		if p.DisplayName == "" {
			p.DisplayName = strings.TrimSpace(displayName)
		}
		_, err := tx.Exec(ctx, `
			UPDATE partners SET google_sub = $1, display_name = $2, updated_at = now() WHERE id = $3`,
			subject, p.DisplayName, p.ID,
		)
		if err != nil {
			return fmt.Errorf("link google account: %w", err)
		}
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		*p = models.Partner{ID: uuid.NewString(), Email: email, DisplayName: strings.TrimSpace(displayName)}
		_, err := tx.Exec(ctx, `
			INSERT INTO partners (id, email, display_name, google_sub) VALUES ($1, $2, $3, $4)`,
			p.ID, p.Email, p.DisplayName, subject,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: partner signed up concurrently", ErrConflict)
			}
			return fmt.Errorf("insert partner: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find partner by email: %w", err)
	}
}

// RegisterPartner creates an email/password account. Do not log the password.
func RegisterPartner(ctx context.Context, email, password, displayName string) (*models.Partner, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email", ErrInvalid)
	}
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, MinPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	p := models.Partner{ID: uuid.NewString(), Email: email, DisplayName: strings.TrimSpace(displayName)}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO partners (id, email, display_name, password_hash) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Email, p.DisplayName, string(hash),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert partner: %w", err)
	}
	return &p, nil
}

// VerifyPartnerPassword checks the password with the per-email throttle
// applied. Unknown emails and wrong passwords both count as failures.
func VerifyPartnerPassword(ctx context.Context, email, password string) (*models.Partner, error) {
	email = normalizeEmail(email)
	wait, err := LoginThrottleWaitSeconds(ctx, email, ThrottleChannelPassword)
	if err != nil {
		return nil, err
	}
	if wait > 0 {
		return nil, &ThrottledError{WaitSeconds: wait}
	}

	var p models.Partner
	var hash *string
	err = db.Pool.QueryRow(ctx, `
		SELECT id, email, display_name, password_hash FROM partners WHERE email = $1`,
		email,
	).Scan(&p.ID, &p.Email, &p.DisplayName, &hash)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil || hash == nil || bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) != nil {
		if _, rerr := RecordLoginFailed(ctx, email, ThrottleChannelPassword); rerr != nil {
			return nil, rerr
		}
		return nil, ErrInvalidCredentials
	}
	if err := RecordLoginSuccess(ctx, email, ThrottleChannelPassword); err != nil {
		return nil, err
	}
	return &p, nil
}
