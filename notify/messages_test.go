package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		status  string
		heading string
		content string
	}{
		{"Accepted", "Order Accepted! 🎉", "Great news! Spice Hub has accepted your order.\nYour food will be ready soon! 😋"},
		{"Rejected", "Order Update ⚠️", "Sorry, Spice Hub couldn't accept your order right now.\nPlease try ordering from another restaurant."},
		{"Delivered", "Order Status Update", "Your order from Spice Hub is now Delivered."},
	}
	for _, tt := range tests {
		h, c := StatusMessage("Spice Hub", tt.status)
		assert.Equal(t, tt.heading, h, tt.status)
		assert.Equal(t, tt.content, c, tt.status)
	}
}

func TestCustomHeading(t *testing.T) {
	assert.Equal(t, "Message from Spice Hub 📢", CustomHeading("Spice Hub"))
}
