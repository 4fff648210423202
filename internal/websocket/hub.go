package websocket

import (
	"encoding/json"
	"sync"
)

const (
	EventSubscriptionsChanged = "subscriptions_changed"
	EventArchiveChanged       = "archive_changed"
	EventRatesRefreshed       = "rates_refreshed"
)

// Event tells a connected dashboard which view to reload.
type Event struct {
	Type           string `json:"type"`
	SubscriptionID string `json:"subscription_id,omitempty"`
}

// Hub fans events out to the open connections of each owner.
type Hub struct {
	mu     sync.RWMutex
	owners map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{owners: map[string]map[*Client]struct{}{}}
}

func (h *Hub) Register(ownerID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.owners[ownerID]
	if !ok {
		conns = map[*Client]struct{}{}
		h.owners[ownerID] = conns
	}
	conns[client] = struct{}{}
}

func (h *Hub) Unregister(ownerID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.owners[ownerID]
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.owners, ownerID)
	}
}

// BroadcastEvent sends event to the owner's connections.
func (h *Hub) BroadcastEvent(ownerID string, event Event) {
	h.publish(event, func(owner string) bool { return owner == ownerID })
}

// BroadcastAll sends event to every connected owner.
func (h *Hub) BroadcastAll(event Event) {
	h.publish(event, func(string) bool { return true })
}

// publish never blocks; a connection with a full buffer misses the event
// and picks the state up on its next reload.
func (h *Hub) publish(event Event, match func(ownerID string) bool) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ownerID, conns := range h.owners {
		if !match(ownerID) {
			continue
		}
		for client := range conns {
			select {
			case client.send <- payload:
			default:
			}
		}
	}
}

func (h *Hub) Connections(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.owners[ownerID])
}
