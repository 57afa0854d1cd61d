package models

import "testing"

func TestCategoryKeyAndDisplayName(t *testing.T) {
	c := PreOrderCategory{Name: "Lunch"}
	if c.Key() != "Pre-order Lunch" {
		t.Errorf("Key() = %q", c.Key())
	}
	tests := map[string]string{
		"Pre-order Lunch":   "Lunch",
		"Pre-order  Dinner": "Dinner",
		"Current Menu":      "Current Menu",
	}
	for in, want := range tests {
		if got := CategoryDisplayName(in); got != want {
			t.Errorf("CategoryDisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRestaurantDisplayName(t *testing.T) {
	var nilRest *Restaurant
	if nilRest.DisplayName() != DefaultRestaurantName {
		t.Error("nil restaurant should use default name")
	}
	if (&Restaurant{}).DisplayName() != DefaultRestaurantName {
		t.Error("empty name should use default name")
	}
	if (&Restaurant{Name: "Khana"}).DisplayName() != "Khana" {
		t.Error("named restaurant should keep its name")
	}
}

func TestOrderDecision(t *testing.T) {
	if !ValidDecision(OrderStatusAccepted) || !ValidDecision(OrderStatusRejected) {
		t.Error("Accepted and Rejected are decisions")
	}
	if ValidDecision(OrderStatusPending) || ValidDecision("") {
		t.Error("Pending and empty are not decisions")
	}
	o := &Order{OrderStatus: OrderStatusPending}
	if !o.IsOpen() {
		t.Error("pending order should be open")
	}
	o.OrderStatus = OrderStatusRejected
	if o.IsOpen() {
		t.Error("rejected order should not be open")
	}
}
