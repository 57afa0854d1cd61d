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
)

// CategoryWithCount is a dashboard row: the category and its incoming pre-orders.
type CategoryWithCount struct {
	models.PreOrderCategory
	Key        string `json:"key"`
	OrderCount int    `json:"orderCount"`
}

func ListPreOrderCategories(ctx context.Context, restaurantID string) ([]models.PreOrderCategory, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, COALESCE(name, ''), COALESCE(start_time, ''), COALESCE(end_time, ''), COALESCE(delivery_time, '')
		FROM pre_order_categories
		WHERE restaurant_id = $1
		ORDER BY created_at, id`,
		restaurantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []models.PreOrderCategory{}
	for rows.Next() {
		var c models.PreOrderCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.StartTime, &c.EndTime, &c.DeliveryTime); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func GetPreOrderCategory(ctx context.Context, restaurantID, categoryID string) (*models.PreOrderCategory, error) {
	var c models.PreOrderCategory
	err := db.Pool.QueryRow(ctx, `
		SELECT id, COALESCE(name, ''), COALESCE(start_time, ''), COALESCE(end_time, ''), COALESCE(delivery_time, '')
		FROM pre_order_categories
		WHERE id = $1 AND restaurant_id = $2`,
		categoryID, restaurantID,
	).Scan(&c.ID, &c.Name, &c.StartTime, &c.EndTime, &c.DeliveryTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func CreatePreOrderCategory(ctx context.Context, restaurantID string, c models.PreOrderCategory) (*models.PreOrderCategory, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalid)
	}
	c.ID = uuid.NewString()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO pre_order_categories (id, restaurant_id, name, start_time, end_time, delivery_time)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, restaurantID, c.Name, strings.TrimSpace(c.StartTime), strings.TrimSpace(c.EndTime), strings.TrimSpace(c.DeliveryTime),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &c, nil
}

// DeletePreOrderCategory removes the category and every menu item filed under
// its key in one transaction. Orders are left alone.
func DeletePreOrderCategory(ctx context.Context, restaurantID, categoryID string) (itemsDeleted int64, err error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var name string
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(name, '') FROM pre_order_categories WHERE id = $1 AND restaurant_id = $2 FOR UPDATE`,
		categoryID, restaurantID,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	res, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE restaurant_id = $1 AND category = $2`,
		restaurantID, models.CategoryKey(name))
	if err != nil {
		return 0, fmt.Errorf("delete category items: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM pre_order_categories WHERE id = $1`, categoryID); err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return res.RowsAffected(), nil
}

// ListDashboardCategories joins the categories with the count of incoming
// pre-orders filed under each key.
func ListDashboardCategories(ctx context.Context, restaurantID string) ([]CategoryWithCount, error) {
	cats, err := ListPreOrderCategories(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	pending, err := ListIncomingPreOrders(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	return WithOrderCounts(cats, CountByCategory(pending)), nil
}

func WithOrderCounts(cats []models.PreOrderCategory, counts map[string]int) []CategoryWithCount {
	out := make([]CategoryWithCount, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryWithCount{PreOrderCategory: c, Key: c.Key(), OrderCount: counts[c.Key()]})
	}
	return out
}
