package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yumzy-partner/models"
	"yumzy-partner/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// callback is a parsed inline-button payload.
type callback struct {
	action string // cat, orders, msg, bulk, order_status
	id     string
	status string
}

func parseCallback(data string) (callback, bool) {
	if orderID, status, ok := services.ParseOrderStatusCallback(data); ok {
		return callback{action: "order_status", id: orderID, status: status}, true
	}
	parts := strings.Split(data, ":")
	switch {
	case len(parts) == 2 && parts[1] != "" && (parts[0] == "cat" || parts[0] == "orders" || parts[0] == "msg"):
		return callback{action: parts[0], id: parts[1]}, true
	case len(parts) == 3 && parts[0] == "bulk" && parts[1] != "" && models.ValidDecision(parts[2]):
		return callback{action: "bulk", id: parts[1], status: parts[2]}, true
	}
	return callback{}, false
}

func (b *Bot) answer(callbackQueryID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackQueryID, text)); err != nil {
		log.WithError(err).Debug("[bot] answer callback")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		b.answer(cq.ID, "")
		return
	}
	chatID := cq.Message.Chat.ID
	cb, ok := parseCallback(cq.Data)
	if !ok {
		b.answer(cq.ID, "Invalid action.")
		return
	}
	rid, ok := b.restaurantFor(ctx, chatID)
	if !ok {
		b.answer(cq.ID, "Unauthorized.")
		return
	}

	switch cb.action {
	case "cat":
		b.answer(cq.ID, "")
		_, board, err := services.CategoryBoard(ctx, rid, cb.id, models.AllLocations)
		if err != nil {
			b.send(chatID, "Category not found.")
			return
		}
		b.sendContent(chatID, services.BuildBoardCard(cb.id, board))
	case "orders":
		b.answer(cq.ID, "")
		_, board, err := services.CategoryBoard(ctx, rid, cb.id, models.AllLocations)
		if err != nil {
			b.send(chatID, "Category not found.")
			return
		}
		if len(board.Orders) == 0 {
			b.send(chatID, "No orders in "+board.DisplayName+".")
			return
		}
		for i := range board.Orders {
			o := &board.Orders[i]
			unlock := b.lockOrder(o.ID)
			b.UpsertOrderCard(ctx, o.ID, chatID, services.BuildOrderCard(o))
			unlock()
		}
	case "msg":
		b.answer(cq.ID, "")
		b.setAwaitingMessage(chatID, cb.id)
		b.send(chatID, "Send the message for the customers of this category.")
	case "order_status":
		b.handleOrderStatus(ctx, cq, rid, cb.id, cb.status)
	case "bulk":
		b.handleBulk(ctx, cq, rid, cb.id, cb.status)
	}
}

func (b *Bot) handleOrderStatus(ctx context.Context, cq *tgbotapi.CallbackQuery, restaurantID, orderID, status string) {
	o, err := services.GetOrder(ctx, restaurantID, orderID)
	if err != nil {
		b.answer(cq.ID, "Order not found.")
		return
	}
	if !o.IsOpen() {
		b.answer(cq.ID, "Already "+o.OrderStatus+".")
		b.RefreshOrderCards(ctx, restaurantID, orderID)
		return
	}
	if _, err := services.DecideOrder(ctx, b.notifier, restaurantID, orderID, status); err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrForbidden) {
			b.answer(cq.ID, "Order not found.")
			return
		}
		log.WithError(err).WithField("order_id", orderID).Error("[bot] order status update failed")
		b.answer(cq.ID, "Update failed.")
		return
	}
	b.answer(cq.ID, "✅ Order "+strings.ToLower(status)+".")
	b.RefreshOrderCards(ctx, restaurantID, orderID)
}

func (b *Bot) handleBulk(ctx context.Context, cq *tgbotapi.CallbackQuery, restaurantID, categoryID, status string) {
	_, board, err := services.CategoryBoard(ctx, restaurantID, categoryID, models.AllLocations)
	if err != nil {
		b.answer(cq.ID, "Category not found.")
		return
	}
	ids := services.OrderIDs(board.Orders)
	if len(ids) == 0 {
		b.answer(cq.ID, "No orders to update.")
		return
	}
	updated, err := services.DecideOrders(ctx, b.notifier, restaurantID, ids, status)
	if err != nil {
		log.WithError(err).WithField("restaurant_id", restaurantID).Error("[bot] bulk status update failed")
		b.answer(cq.ID, "Update failed.")
		return
	}
	b.answer(cq.ID, fmt.Sprintf("✅ %d orders %s.", len(updated), strings.ToLower(status)))
	for _, id := range updated {
		b.RefreshOrderCards(ctx, restaurantID, id)
	}
}
