package main

import "sync"

// Hub tracks live connections and their room subscriptions, and fans
// outbound messages to a single connection, one room's subscribers, or
// every connected client. A connection stays subscribed to a room
// until it disconnects, even after its player has been eliminated, so
// spectators keep receiving the endgame.
//
// Send channels are only ever written while holding mu for reading and
// only ever closed while holding mu for writing, so a fan-out can
// never race a disconnect onto a closed channel.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connection ID → client
	rooms   map[string]map[string]*Client // room ID → connection ID → client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
}

// Unregister drops the connection from the hub and every room set, and
// closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.drop(c)
}

// Subscribe adds the connection to roomID's broadcast audience.
// Subscribing twice is harmless.
func (h *Hub) Subscribe(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}

	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[string]*Client)
		h.rooms[roomID] = subs
	}
	subs[c.id] = c
}

// SendTo queues msg for a single connection.
func (h *Hub) SendTo(c *Client, msg any) {
	h.mu.RLock()
	cur, registered := h.clients[c.id]
	slow := registered && cur == c && !trySend(c, msg)
	h.mu.RUnlock()

	if slow {
		h.drop(c)
	}
}

// SendRoom queues msg for every connection subscribed to roomID.
func (h *Hub) SendRoom(roomID string, msg any) {
	var slow []*Client

	h.mu.RLock()
	for _, c := range h.rooms[roomID] {
		if !trySend(c, msg) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.drop(c)
	}
}

// SendAll queues msg for every connected client.
func (h *Hub) SendAll(msg any) {
	var slow []*Client

	h.mu.RLock()
	for _, c := range h.clients {
		if !trySend(c, msg) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.drop(c)
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// drop removes the connection from every table and closes its send
// channel. A client whose buffer filled up is not keeping up and gets
// dropped rather than stalling the room.
func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, c.id)
	for roomID, subs := range h.rooms {
		delete(subs, c.id)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}

	c.Close()
}

func trySend(c *Client, msg any) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}
