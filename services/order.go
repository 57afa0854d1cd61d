package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"yumzy-partner/db"
	"yumzy-partner/models"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `
	id, restaurant_id, COALESCE(user_id, ''), COALESCE(user_name, ''), COALESCE(user_phone, ''),
	COALESCE(user_base_location, ''), COALESCE(user_sub_location, ''), COALESCE(room, ''),
	COALESCE(total_price, 0), COALESCE(order_status, ''), COALESCE(order_type, ''),
	COALESCE(pre_order_category, ''), items, created_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var itemsJSON []byte
	err := row.Scan(&o.ID, &o.RestaurantID, &o.UserID, &o.UserName, &o.UserPhone,
		&o.UserBaseLocation, &o.UserSubLocation, &o.Room,
		&o.TotalPrice, &o.OrderStatus, &o.OrderType,
		&o.PreOrderCategory, &itemsJSON, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Items = DecodeOrderItems(itemsJSON)
	o.FullAddress = FullAddress(o.Room, o.UserSubLocation)
	return &o, nil
}

func queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// DecodeOrderItems reads the items array leniently: entries that are not
// objects are skipped, a missing or non-string name reads as "Unknown" and a
// missing or non-numeric quantity is 0. An explicit empty name is kept.
func DecodeOrderItems(raw []byte) []models.OrderItem {
	items := []models.OrderItem{}
	if len(raw) == 0 {
		return items
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return items
	}
	for _, d := range docs {
		var m map[string]any
		if err := json.Unmarshal(d, &m); err != nil || m == nil {
			continue
		}
		it := models.OrderItem{ItemName: unknownItemName}
		if s, ok := m["itemName"].(string); ok {
			it.ItemName = s
		}
		if q, ok := m["quantity"].(float64); ok {
			it.Quantity = int64(q)
		}
		items = append(items, it)
	}
	return items
}

func FullAddress(room, subLocation string) string {
	return fmt.Sprintf("Room: %s\n%s", room, subLocation)
}

// ListOrdersForCategory returns every order of the restaurant filed under the
// category key, whatever its status.
func ListOrdersForCategory(ctx context.Context, restaurantID, categoryKey string) ([]models.Order, error) {
	return queryOrders(ctx, `SELECT `+orderColumns+`
		FROM orders
		WHERE restaurant_id = $1 AND pre_order_category = $2
		ORDER BY created_at, id`,
		restaurantID, categoryKey,
	)
}

// ListIncomingPreOrders returns pending pre-orders for the dashboard badges.
func ListIncomingPreOrders(ctx context.Context, restaurantID string) ([]models.Order, error) {
	return queryOrders(ctx, `SELECT `+orderColumns+`
		FROM orders
		WHERE restaurant_id = $1 AND order_type = $2 AND order_status = $3
		ORDER BY created_at, id`,
		restaurantID, models.OrderTypePreOrder, models.OrderStatusPending,
	)
}

// GetOrder loads one order of the restaurant. An order that belongs to another
// restaurant yields ErrForbidden.
func GetOrder(ctx context.Context, restaurantID, orderID string) (*models.Order, error) {
	o, err := scanOrder(db.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.RestaurantID != restaurantID {
		return nil, ErrForbidden
	}
	return o, nil
}

// UpdateOrderStatus records a decision on one order and returns the updated order.
func UpdateOrderStatus(ctx context.Context, restaurantID, orderID, status string) (*models.Order, error) {
	if !models.ValidDecision(status) {
		return nil, fmt.Errorf("%w: status must be %s or %s", ErrInvalid, models.OrderStatusAccepted, models.OrderStatusRejected)
	}
	o, err := GetOrder(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	_, err = db.Pool.Exec(ctx, `
		UPDATE orders SET order_status = $1, updated_at = now()
		WHERE id = $2 AND restaurant_id = $3`,
		status, orderID, restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	o.OrderStatus = status
	return o, nil
}

// UpdateOrdersStatus applies one decision to many orders atomically. Ids that
// do not belong to the restaurant are skipped; the updated ids are returned.
func UpdateOrdersStatus(ctx context.Context, restaurantID string, orderIDs []string, status string) ([]string, error) {
	if !models.ValidDecision(status) {
		return nil, fmt.Errorf("%w: status must be %s or %s", ErrInvalid, models.OrderStatusAccepted, models.OrderStatusRejected)
	}
	if len(orderIDs) == 0 {
		return nil, nil
	}
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		UPDATE orders SET order_status = $1, updated_at = now()
		WHERE restaurant_id = $2 AND id = ANY($3)
		RETURNING id`,
		status, restaurantID, orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("bulk update: %w", err)
	}
	var updated []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		updated = append(updated, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

// UserIDForOrder returns the customer behind an order.
func UserIDForOrder(ctx context.Context, orderID string) (string, error) {
	var userID *string
	err := db.Pool.QueryRow(ctx, `SELECT user_id FROM orders WHERE id = $1`, orderID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if userID == nil {
		return "", nil
	}
	return *userID, nil
}

// OwnedOrderIDs keeps the ids that belong to the restaurant, in input order.
func OwnedOrderIDs(ctx context.Context, restaurantID string, orderIDs []string) ([]string, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	rows, err := db.Pool.Query(ctx, `SELECT id FROM orders WHERE restaurant_id = $1 AND id = ANY($2)`, restaurantID, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	owned := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var out []string
	for _, id := range orderIDs {
		if owned[id] {
			out = append(out, id)
			delete(owned, id)
		}
	}
	return out, nil
}
