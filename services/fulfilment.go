package services

import (
	"context"
	"fmt"

	"yumzy-partner/models"

	log "github.com/sirupsen/logrus"
)

// StatusNotifier tells customers about decisions on their orders.
type StatusNotifier interface {
	NotifyStatus(ctx context.Context, userID, orderID, status, restaurantName string) (bool, error)
	NotifyBulk(ctx context.Context, orderIDs []string, status, restaurantName string) (int, error)
}

// DecideOrder accepts or rejects one order and notifies its customer.
// Notification failures are logged and do not fail the decision.
func DecideOrder(ctx context.Context, n StatusNotifier, restaurantID, orderID, status string) (*models.Order, error) {
	o, err := UpdateOrderStatus(ctx, restaurantID, orderID, status)
	if err != nil {
		return nil, err
	}
	logger := log.WithFields(log.Fields{"order_id": orderID, "restaurant_id": restaurantID, "status": status})
	logger.Info("[orders] status updated")

	if n == nil {
		return o, nil
	}
	name, err := RestaurantName(ctx, restaurantID)
	if err != nil {
		logger.WithError(err).Warn("[orders] restaurant name lookup failed")
	}
	if _, err := n.NotifyStatus(ctx, o.UserID, o.ID, status, name); err != nil {
		logger.WithError(err).Error("[orders] status notification failed")
	}
	return o, nil
}

// DecideOrders applies one decision to many orders, then sends a single
// bulk notification. It returns the ids that were updated.
func DecideOrders(ctx context.Context, n StatusNotifier, restaurantID string, orderIDs []string, status string) ([]string, error) {
	updated, err := UpdateOrdersStatus(ctx, restaurantID, orderIDs, status)
	if err != nil {
		return nil, err
	}
	logger := log.WithFields(log.Fields{"restaurant_id": restaurantID, "status": status})
	logger.WithField("orders", len(updated)).Info("[orders] bulk status updated")

	if n == nil || len(updated) == 0 {
		return updated, nil
	}
	name, err := RestaurantName(ctx, restaurantID)
	if err != nil {
		logger.WithError(err).Warn("[orders] restaurant name lookup failed")
	}
	if _, err := n.NotifyBulk(ctx, updated, status, name); err != nil {
		logger.WithError(err).Error("[orders] bulk notification failed")
	}
	return updated, nil
}

// CategoryBoard loads a category of the restaurant and builds its board for
// the location filter.
func CategoryBoard(ctx context.Context, restaurantID, categoryID, location string) (*models.PreOrderCategory, OrderBoard, error) {
	cat, err := GetPreOrderCategory(ctx, restaurantID, categoryID)
	if err != nil {
		return nil, OrderBoard{}, err
	}
	r, err := GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, OrderBoard{}, fmt.Errorf("load restaurant: %w", err)
	}
	orders, err := ListOrdersForCategory(ctx, restaurantID, cat.Key())
	if err != nil {
		return nil, OrderBoard{}, err
	}
	return cat, BuildOrderBoard(cat.Key(), r.DeliveryLocations, orders, location), nil
}
