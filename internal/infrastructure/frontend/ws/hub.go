package ws

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub fans out Events to every Client subscribed to the originating
// session. Unlike the teacher's Hub, which indexes clients by user,
// workflow and execution ID, a dashboard session is the only scope
// clients ever subscribe to.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event

	bySession map[string]map[*Client]struct{}

	logger zerolog.Logger
	mu     sync.RWMutex
}

// NewHub returns a Hub; call Run in its own goroutine before serving
// connections.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 256),
		bySession:  make(map[string]map[*Client]struct{}),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Run drives the hub's event loop. It must run in its own goroutine for
// the lifetime of the process.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case evt := <-h.broadcast:
			h.broadcastEvent(evt)
		}
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	h.logger.Debug().Str("client_id", c.id).Msg("websocket client registered")
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for sessionID := range c.subs.sessions() {
		if set, ok := h.bySession[sessionID]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.bySession, sessionID)
			}
		}
	}
	close(c.send)
	h.logger.Debug().Str("client_id", c.id).Msg("websocket client unregistered")
}

// Broadcast publishes evt to every client subscribed to evt.SessionID.
// Safe to call from any goroutine; it never blocks on a slow client.
func (h *Hub) Broadcast(evt *Event) {
	h.broadcast <- evt
}

func (h *Hub) broadcastEvent(evt *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.bySession[evt.SessionID] {
		select {
		case c.send <- evt:
		default:
			h.logger.Warn().Str("client_id", c.id).Msg("websocket client send buffer full, dropping event")
		}
	}
}

// Subscribe adds client to sessionID's fan-out set.
func (h *Hub) Subscribe(c *Client, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.bySession[sessionID]
	if !ok {
		set = make(map[*Client]struct{})
		h.bySession[sessionID] = set
	}
	set[c] = struct{}{}
	c.subs.add(sessionID)
}

// Unsubscribe removes client from sessionID's fan-out set.
func (h *Hub) Unsubscribe(c *Client, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.bySession[sessionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.bySession, sessionID)
		}
	}
	c.subs.remove(sessionID)
}

// ClientCount returns the number of clients currently subscribed to
// sessionID.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.bySession[sessionID])
}
