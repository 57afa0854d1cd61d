package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRestaurantUpdateNormalized(t *testing.T) {
	u, err := RestaurantUpdate{Cuisine: strPtr("  Bengali "), ImageURL: strPtr("")}.normalized()
	require.NoError(t, err)
	assert.Nil(t, u.Name, "omitted name stays unset")
	assert.Nil(t, u.DeliveryLocations)
	assert.Equal(t, "Bengali", *u.Cuisine)
	assert.Equal(t, "", *u.ImageURL, "an explicit empty image url clears it")

	_, err = RestaurantUpdate{Name: strPtr(" \t")}.normalized()
	assert.True(t, errors.Is(err, ErrInvalid), "blank name: %v", err)
}
