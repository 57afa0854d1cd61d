package notify

import (
	"fmt"

	"yumzy-partner/models"
)

const (
	TypeBulkOrderUpdate = "bulk_order_update"
	TypeCustomMessage   = "custom_message"
)

// StatusMessage returns the heading and body sent to a customer when the
// restaurant decides on their order.
func StatusMessage(restaurantName, status string) (heading, content string) {
	switch status {
	case models.OrderStatusAccepted:
		return "Order Accepted! 🎉",
			fmt.Sprintf("Great news! %s has accepted your order.\nYour food will be ready soon! 😋", restaurantName)
	case models.OrderStatusRejected:
		return "Order Update ⚠️",
			fmt.Sprintf("Sorry, %s couldn't accept your order right now.\nPlease try ordering from another restaurant.", restaurantName)
	default:
		return "Order Status Update",
			fmt.Sprintf("Your order from %s is now %s.", restaurantName, status)
	}
}

func CustomHeading(restaurantName string) string {
	return fmt.Sprintf("Message from %s 📢", restaurantName)
}
