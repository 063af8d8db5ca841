package websocket

import (
	"encoding/json"
	"sync"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
)

const (
	ChannelFlags     = "flags"
	ChannelDecisions = "decisions"
)

// ChannelsFor lists the review channels a role listens on. Everyone hears
// decisions; encoders and approvers also hear about new flags.
func ChannelsFor(role models.Role) []string {
	switch {
	case role.IsAdmin(), role == models.RoleEncoder, role == models.RoleApprover:
		return []string{ChannelFlags, ChannelDecisions}
	}
	return []string{ChannelDecisions}
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(channels []string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, channel := range channels {
		if h.clients[channel] == nil {
			h.clients[channel] = make(map[*Client]struct{})
		}
		h.clients[channel][client] = struct{}{}
	}
}

// Unregister drops client from every channel and stops its write loop.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for channel, members := range h.clients {
		delete(members, client)
		if len(members) == 0 {
			delete(h.clients, channel)
		}
	}
	client.stop()
}

// Broadcast sends payload as JSON to every client on channel. Slow clients
// whose buffers are full miss the message.
func (h *Hub) Broadcast(channel string, payload any) error {
	message, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[channel] {
		select {
		case client.send <- message:
		default:
		}
	}
	return nil
}

func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[channel])
}
