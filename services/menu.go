package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"yumzy-partner/db"
	"yumzy-partner/models"

	"github.com/google/uuid"
)

func scanMenuItems(ctx context.Context, query string, args ...any) ([]models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Category); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListMenu returns every menu item of the restaurant.
func ListMenu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	return scanMenuItems(ctx, `
		SELECT id, COALESCE(name, ''), COALESCE(price, 0), COALESCE(category, '')
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY created_at, id`,
		restaurantID,
	)
}

// ListMenuByCategory returns items whose category equals the given key.
// Items in a category listing default their name to "No Name".
func ListMenuByCategory(ctx context.Context, restaurantID, category string) ([]models.MenuItem, error) {
	return scanMenuItems(ctx, `
		SELECT id, COALESCE(name, 'No Name'), COALESCE(price, 0), COALESCE(category, 'No Category')
		FROM menu_items
		WHERE restaurant_id = $1 AND category = $2
		ORDER BY created_at, id`,
		restaurantID, category,
	)
}

// FilterMenu keeps the items of one category.
func FilterMenu(items []models.MenuItem, category string) []models.MenuItem {
	out := []models.MenuItem{}
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// ParsePrice reads a user-typed price; anything unparsable is 0.
func ParsePrice(s string) float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return p
}

// AddMenuItem adds an item under category (defaults to the current menu).
func AddMenuItem(ctx context.Context, restaurantID, name string, price float64, category string) (*models.MenuItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is required", ErrInvalid)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrInvalid)
	}
	if strings.TrimSpace(category) == "" {
		category = models.CurrentMenuCategory
	}
	it := models.MenuItem{ID: uuid.NewString(), Name: name, Price: price, Category: category}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO menu_items (id, restaurant_id, name, price, category)
		VALUES ($1, $2, $3, $4, $5)`,
		it.ID, restaurantID, it.Name, it.Price, it.Category,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("insert menu item: %w", err)
	}
	return &it, nil
}

func DeleteMenuItem(ctx context.Context, restaurantID, itemID string) error {
	res, err := db.Pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1 AND restaurant_id = $2`, itemID, restaurantID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
