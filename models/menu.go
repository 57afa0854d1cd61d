package models

import "strings"

// CurrentMenuCategory holds the regular (non pre-order) menu.
const CurrentMenuCategory = "Current Menu"

// PreOrderPrefix is prepended to a pre-order category name to form the key
// stored on menu items and orders.
const PreOrderPrefix = "Pre-order "

type MenuItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// PreOrderCategory is an ordering window. Times are free-form ("11am").
type PreOrderCategory struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	DeliveryTime string `json:"deliveryTime"`
}

// Key is the category string carried by menu items and orders.
func (c PreOrderCategory) Key() string {
	return CategoryKey(c.Name)
}

func CategoryKey(name string) string {
	return PreOrderPrefix + name
}

// CategoryDisplayName strips the pre-order prefix.
func CategoryDisplayName(key string) string {
	return strings.TrimSpace(strings.TrimPrefix(key, PreOrderPrefix))
}
