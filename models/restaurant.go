package models

const DefaultRestaurantName = "Your Restaurant"

type Restaurant struct {
	OwnerID           string   `json:"ownerId"`
	Name              string   `json:"name"`
	Cuisine           string   `json:"cuisine"`
	ImageURL          string   `json:"imageUrl"`
	DeliveryLocations []string `json:"deliveryLocations"`
	Email             string   `json:"email"`
}

// DisplayName falls back to DefaultRestaurantName when the profile has no name.
func (r *Restaurant) DisplayName() string {
	if r == nil || r.Name == "" {
		return DefaultRestaurantName
	}
	return r.Name
}

// Location is a base location with its deliverable sub-locations.
type Location struct {
	Name         string   `json:"name" yaml:"name"`
	SubLocations []string `json:"subLocations" yaml:"subLocations"`
}

// Partner is the signed-in restaurant owner account.
type Partner struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}
