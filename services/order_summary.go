package services

import (
	"sort"

	"yumzy-partner/models"
)

const unknownItemName = "Unknown"

// LocationFilters returns "All" followed by the restaurant's delivery
// sub-locations in sorted order.
func LocationFilters(deliveryLocations []string) []string {
	locs := append([]string(nil), deliveryLocations...)
	sort.Strings(locs)
	return append([]string{models.AllLocations}, locs...)
}

// FilterByLocation keeps orders delivered to the given sub-location. "All"
// and the empty filter keep everything.
func FilterByLocation(orders []models.Order, location string) []models.Order {
	if location == "" || location == models.AllLocations {
		return orders
	}
	out := []models.Order{}
	for _, o := range orders {
		if o.UserSubLocation == location {
			out = append(out, o)
		}
	}
	return out
}

// SummarizeItems sums quantities per item name, in first-seen order.
func SummarizeItems(orders []models.Order) []models.ItemSummary {
	idx := make(map[string]int)
	out := []models.ItemSummary{}
	for _, o := range orders {
		for _, it := range o.Items {
			name := it.ItemName
			i, ok := idx[name]
			if !ok {
				i = len(out)
				idx[name] = i
				out = append(out, models.ItemSummary{Name: name})
			}
			out[i].Quantity += it.Quantity
		}
	}
	return out
}

// CountByCategory counts orders per pre-order category key.
func CountByCategory(orders []models.Order) map[string]int {
	counts := make(map[string]int)
	for _, o := range orders {
		counts[o.PreOrderCategory]++
	}
	return counts
}

// SplitSummary divides the summary into two columns; the left one takes the
// extra row when the count is odd.
func SplitSummary(summary []models.ItemSummary) (left, right []models.ItemSummary) {
	half := (len(summary) + 1) / 2
	return summary[:half], summary[half:]
}

func OrderIDs(orders []models.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

// OrderBoard is what the partner sees for one category: the orders behind the
// current filter, their item totals and the available filters.
type OrderBoard struct {
	Category        string               `json:"category"`
	DisplayName     string               `json:"displayName"`
	Location        string               `json:"location"`
	LocationFilters []string             `json:"locationFilters"`
	Summary         []models.ItemSummary `json:"summary"`
	Orders          []models.Order       `json:"orders"`
}

func BuildOrderBoard(categoryKey string, deliveryLocations []string, orders []models.Order, location string) OrderBoard {
	if location == "" {
		location = models.AllLocations
	}
	filtered := FilterByLocation(orders, location)
	return OrderBoard{
		Category:        categoryKey,
		DisplayName:     models.CategoryDisplayName(categoryKey),
		Location:        location,
		LocationFilters: LocationFilters(deliveryLocations),
		Summary:         SummarizeItems(filtered),
		Orders:          filtered,
	}
}
