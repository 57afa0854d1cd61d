package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yumzy-partner/db"
	"yumzy-partner/models"

	"github.com/jackc/pgx/v5"
)

const (
	ScreenDashboard     = "dashboard"
	ScreenCreateProfile = "create_profile"
)

// GetRestaurant loads the restaurant owned by ownerID. Missing fields come back empty.
func GetRestaurant(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	var r models.Restaurant
	err := db.Pool.QueryRow(ctx, `
		SELECT owner_id, COALESCE(name, ''), COALESCE(cuisine, ''), COALESCE(image_url, ''),
		       COALESCE(delivery_locations, '{}'), COALESCE(email, '')
		FROM restaurants WHERE owner_id = $1`,
		ownerID,
	).Scan(&r.OwnerID, &r.Name, &r.Cuisine, &r.ImageURL, &r.DeliveryLocations, &r.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// RestaurantName returns the display name, falling back to the default when the
// profile is missing or unnamed.
func RestaurantName(ctx context.Context, ownerID string) (string, error) {
	r, err := GetRestaurant(ctx, ownerID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return models.DefaultRestaurantName, err
	}
	return r.DisplayName(), nil
}

// NextScreen decides where a freshly signed-in partner lands.
func NextScreen(ctx context.Context, ownerID string) (string, error) {
	var ok int
	err := db.Pool.QueryRow(ctx, `SELECT 1 FROM restaurants WHERE owner_id = $1`, ownerID).Scan(&ok)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ScreenCreateProfile, nil
		}
		return "", err
	}
	return ScreenDashboard, nil
}

// resolveDeliveryLocations keeps the requested sub-locations that exist in the
// catalog, grouped by base.
func resolveDeliveryLocations(ctx context.Context, requested []string) ([]string, error) {
	catalog, err := ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return NewDeliverySelection(catalog).SetInitial(requested).Final(), nil
}

// CreateRestaurantProfile writes the whole profile document, replacing any
// previous one. The image URL is not part of the initial profile.
func CreateRestaurantProfile(ctx context.Context, owner models.Partner, name, cuisine string, deliveryLocations []string) (*models.Restaurant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: restaurant name is required", ErrInvalid)
	}
	locs, err := resolveDeliveryLocations(ctx, deliveryLocations)
	if err != nil {
		return nil, err
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO restaurants (owner_id, name, cuisine, image_url, delivery_locations, email, updated_at)
		VALUES ($1, $2, $3, NULL, $4, $5, now())
		ON CONFLICT (owner_id) DO UPDATE SET
			name = EXCLUDED.name,
			cuisine = EXCLUDED.cuisine,
			image_url = NULL,
			delivery_locations = EXCLUDED.delivery_locations,
			email = EXCLUDED.email,
			updated_at = now()`,
		owner.ID, name, strings.TrimSpace(cuisine), locs, owner.Email,
	)
	if err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return &models.Restaurant{
		OwnerID:           owner.ID,
		Name:              name,
		Cuisine:           strings.TrimSpace(cuisine),
		DeliveryLocations: locs,
		Email:             owner.Email,
	}, nil
}

// RestaurantUpdate is a partial profile edit. Nil fields are left unchanged.
type RestaurantUpdate struct {
	Name              *string   `json:"name"`
	Cuisine           *string   `json:"cuisine"`
	ImageURL          *string   `json:"imageUrl"`
	DeliveryLocations *[]string `json:"deliveryLocations"`
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// normalized trims the set fields and rejects a blank name.
func (u RestaurantUpdate) normalized() (RestaurantUpdate, error) {
	out := RestaurantUpdate{
		Name:              trimmed(u.Name),
		Cuisine:           trimmed(u.Cuisine),
		ImageURL:          trimmed(u.ImageURL),
		DeliveryLocations: u.DeliveryLocations,
	}
	if out.Name != nil && *out.Name == "" {
		return out, fmt.Errorf("%w: restaurant name cannot be blank", ErrInvalid)
	}
	return out, nil
}

// UpdateRestaurantProfile applies the set fields of u and returns the profile.
func UpdateRestaurantProfile(ctx context.Context, ownerID string, u RestaurantUpdate) (*models.Restaurant, error) {
	u, err := u.normalized()
	if err != nil {
		return nil, err
	}
	var locs any
	if u.DeliveryLocations != nil {
		resolved, err := resolveDeliveryLocations(ctx, *u.DeliveryLocations)
		if err != nil {
			return nil, err
		}
		locs = resolved
	}
	res, err := db.Pool.Exec(ctx, `
		UPDATE restaurants SET
			name = COALESCE($1, name),
			cuisine = COALESCE($2, cuisine),
			image_url = COALESCE($3, image_url),
			delivery_locations = COALESCE($4::text[], delivery_locations),
			updated_at = now()
		WHERE owner_id = $5`,
		u.Name, u.Cuisine, u.ImageURL, locs, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	if res.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return GetRestaurant(ctx, ownerID)
}

// ToggleDeliveryLocation flips one catalog sub-location in the restaurant's
// delivery list and returns the new list.
func ToggleDeliveryLocation(ctx context.Context, ownerID, base, sub string) ([]string, error) {
	catalog, err := ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	sel := NewDeliverySelection(catalog)
	if !sel.Has(base, sub) {
		return nil, fmt.Errorf("%w: %q is not a sub-location of %q", ErrInvalid, sub, base)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var saved []string
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(delivery_locations, '{}') FROM restaurants WHERE owner_id = $1 FOR UPDATE`,
		ownerID,
	).Scan(&saved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sel.SetInitial(saved)
	sel.Toggle(base, sub)
	locs := sel.Final()
	if _, err := tx.Exec(ctx, `
		UPDATE restaurants SET delivery_locations = $1, updated_at = now() WHERE owner_id = $2`,
		locs, ownerID,
	); err != nil {
		return nil, fmt.Errorf("update delivery locations: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return locs, nil
}
