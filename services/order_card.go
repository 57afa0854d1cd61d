package services

import (
	"fmt"
	"strings"

	"yumzy-partner/models"
)

// OrderCardButton is one inline button (text + callback_data).
type OrderCardButton struct {
	Text         string
	CallbackData string
}

// OrderCardContent is the text and optional inline keyboard for an order card.
type OrderCardContent struct {
	Text    string
	Buttons [][]OrderCardButton
}

func statusLabel(status string) string {
	switch status {
	case models.OrderStatusPending:
		return "🕒 Pending"
	case models.OrderStatusAccepted:
		return "✅ Accepted"
	case models.OrderStatusRejected:
		return "❌ Rejected"
	default:
		return status
	}
}

// BuildOrderCard renders an order for the partner console. Pending orders get
// Accept/Reject buttons; decided orders carry none.
func BuildOrderCard(o *models.Order) OrderCardContent {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🧾 %s\n", o.UserName)
	if !o.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "%s\n", o.CreatedAt.Format("02 Jan, 03:04 PM"))
	}
	sb.WriteString(o.FullAddress + "\n")
	fmt.Fprintf(&sb, "Contact: %s\n\n", o.UserPhone)
	for _, it := range o.Items {
		fmt.Fprintf(&sb, "%d x %s\n", it.Quantity, it.ItemName)
	}
	fmt.Fprintf(&sb, "\nTotal: %s\n", FormatPrice(o.TotalPrice))
	fmt.Fprintf(&sb, "Status: %s", statusLabel(o.OrderStatus))

	var buttons [][]OrderCardButton
	if o.IsOpen() {
		buttons = [][]OrderCardButton{{
			{Text: "Accept", CallbackData: OrderStatusCallback(o.ID, models.OrderStatusAccepted)},
			{Text: "Reject", CallbackData: OrderStatusCallback(o.ID, models.OrderStatusRejected)},
		}}
	}
	return OrderCardContent{Text: sb.String(), Buttons: buttons}
}

// BuildBoardCard renders the item totals of a category board with bulk actions.
func BuildBoardCard(categoryID string, board OrderBoard) OrderCardContent {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 %s (%s)\n", board.DisplayName, board.Location)
	fmt.Fprintf(&sb, "Orders: %d\n\n", len(board.Orders))
	if len(board.Summary) == 0 {
		sb.WriteString("No items to prepare.")
	}
	for _, s := range board.Summary {
		fmt.Fprintf(&sb, "%s: %d\n", s.Name, s.Quantity)
	}
	var buttons [][]OrderCardButton
	if len(board.Orders) > 0 {
		buttons = append(buttons, []OrderCardButton{
			{Text: "Accept all", CallbackData: "bulk:" + categoryID + ":" + models.OrderStatusAccepted},
			{Text: "Reject all", CallbackData: "bulk:" + categoryID + ":" + models.OrderStatusRejected},
		})
	}
	buttons = append(buttons, []OrderCardButton{
		{Text: "Show orders", CallbackData: "orders:" + categoryID},
		{Text: "📢 Message", CallbackData: "msg:" + categoryID},
	})
	return OrderCardContent{Text: strings.TrimRight(sb.String(), "\n"), Buttons: buttons}
}

func OrderStatusCallback(orderID, status string) string {
	return "order_status:" + orderID + ":" + status
}

// ParseOrderStatusCallback splits "order_status:<id>:<status>".
func ParseOrderStatusCallback(data string) (orderID, status string, ok bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 || parts[0] != "order_status" || parts[1] == "" {
		return "", "", false
	}
	if !models.ValidDecision(parts[2]) {
		return "", "", false
	}
	return parts[1], parts[2], true
}
