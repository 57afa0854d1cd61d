package live

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

const subscriberBuffer = 32

// Subscriber receives events for one restaurant, or for every restaurant when
// RestaurantID is empty.
type Subscriber struct {
	RestaurantID string
	C            chan Event
}

// Hub fans order events out to subscribers. Slow subscribers lose events
// instead of blocking the feed.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscriber]struct{})}
}

func (h *Hub) Subscribe(restaurantID string) *Subscriber {
	s := &Subscriber{RestaurantID: restaurantID, C: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	if h.subs[restaurantID] == nil {
		h.subs[restaurantID] = make(map[*Subscriber]struct{})
	}
	h.subs[restaurantID][s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe removes the subscriber and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[s.RestaurantID]
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.RestaurantID)
	}
	close(s.C)
}

func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(h.subs[e.RestaurantID], e)
	if e.RestaurantID != "" {
		h.deliver(h.subs[""], e)
	}
}

func (h *Hub) deliver(set map[*Subscriber]struct{}, e Event) {
	for s := range set {
		select {
		case s.C <- e:
		default:
			log.WithFields(log.Fields{"order_id": e.OrderID, "restaurant_id": e.RestaurantID}).
				Warn("[live] subscriber too slow, event dropped")
		}
	}
}

func (h *Hub) Count(restaurantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[restaurantID])
}
