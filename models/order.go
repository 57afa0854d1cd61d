package models

import "time"

const (
	OrderStatusPending  = "Pending"
	OrderStatusAccepted = "Accepted"
	OrderStatusRejected = "Rejected"

	OrderTypePreOrder = "PreOrder"

	// AllLocations is the location filter that matches every order.
	AllLocations = "All"
)

type OrderItem struct {
	ItemName string `json:"itemName"`
	Quantity int64  `json:"quantity"`
}

// Order mirrors an order document. Missing columns are read as zero values.
type Order struct {
	ID               string      `json:"id"`
	RestaurantID     string      `json:"restaurantId"`
	UserID           string      `json:"userId"`
	UserName         string      `json:"userName"`
	UserPhone        string      `json:"userPhone"`
	UserBaseLocation string      `json:"userBaseLocation"`
	UserSubLocation  string      `json:"userSubLocation"`
	Room             string      `json:"room"`
	FullAddress      string      `json:"fullAddress"`
	TotalPrice       float64     `json:"totalPrice"`
	OrderStatus      string      `json:"orderStatus"`
	OrderType        string      `json:"orderType"`
	PreOrderCategory string      `json:"preOrderCategory"`
	Items            []OrderItem `json:"items"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// ItemSummary is the total quantity of one item across a set of orders.
type ItemSummary struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// IsOpen reports whether the order still awaits a decision.
func (o *Order) IsOpen() bool {
	return o.OrderStatus != OrderStatusAccepted && o.OrderStatus != OrderStatusRejected
}

func ValidDecision(status string) bool {
	return status == OrderStatusAccepted || status == OrderStatusRejected
}
