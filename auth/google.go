package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

var ErrMissingAudience = errors.New("google client id is not configured")

// Identity is the signed-in user handle produced by one-tap sign-in.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier turns a Google ID token into an Identity.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// IDTokenVerifier checks tokens against Google's published keys.
type IDTokenVerifier struct {
	ClientID string
}

func (v IDTokenVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if v.ClientID == "" {
		return nil, ErrMissingAudience
	}
	payload, err := idtoken.Validate(ctx, rawToken, v.ClientID)
	if err != nil {
		return nil, fmt.Errorf("validate id token: %w", err)
	}
	return identityFromClaims(payload.Subject, payload.Claims)
}

func identityFromClaims(subject string, claims map[string]any) (*Identity, error) {
	if subject == "" {
		return nil, errors.New("id token has no subject")
	}
	id := &Identity{Subject: subject}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	if id.Email == "" {
		return nil, errors.New("id token has no email")
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return nil, errors.New("google email is not verified")
	}
	return id, nil
}
