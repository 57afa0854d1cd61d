package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	e, err := ParseEvent([]byte(`{"op":"insert","order_id":"o1","restaurant_id":"r1","status":"Pending","category":"Pre-order Lunch"}`))
	require.NoError(t, err)
	assert.Equal(t, Event{Op: OpInsert, OrderID: "o1", RestaurantID: "r1", Status: "Pending", Category: "Pre-order Lunch"}, e)

	_, err = ParseEvent([]byte(`{"op":"insert","order_id":"o1"}`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestHubRouting(t *testing.T) {
	h := NewHub()
	r1 := h.Subscribe("r1")
	r2 := h.Subscribe("r2")
	all := h.Subscribe("")

	h.Publish(Event{OrderID: "o1", RestaurantID: "r1"})

	require.Len(t, r1.C, 1)
	assert.Equal(t, "o1", (<-r1.C).OrderID)
	assert.Len(t, r2.C, 0)
	require.Len(t, all.C, 1)
	assert.Equal(t, "o1", (<-all.C).OrderID)
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("r1")
	assert.Equal(t, 1, h.Count("r1"))

	h.Unsubscribe(s)
	h.Unsubscribe(s)
	assert.Equal(t, 0, h.Count("r1"))

	_, open := <-s.C
	assert.False(t, open)

	// publishing with no subscribers must not panic
	h.Publish(Event{OrderID: "o1", RestaurantID: "r1"})
}

func TestHubDropsWhenFull(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("r1")
	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish(Event{OrderID: "o", RestaurantID: "r1"})
	}
	assert.Len(t, s.C, subscriberBuffer)
}
