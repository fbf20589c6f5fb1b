package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// subscriptions tracks which sessions a client currently listens to.
type subscriptions struct {
	mu   sync.RWMutex
	ids  map[string]struct{}
}

func newSubscriptions() *subscriptions {
	return &subscriptions{ids: make(map[string]struct{})}
}

func (s *subscriptions) add(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[sessionID] = struct{}{}
}

func (s *subscriptions) remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, sessionID)
}

func (s *subscriptions) sessions() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.ids))
	for id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}

// Client is one websocket connection, subscribed to zero or more sessions.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan *Event

	id     string
	userID string
	subs   *subscriptions
}

// NewClient wraps conn as a hub-managed Client identified by id, owned by
// userID (as resolved by an Authenticator).
func NewClient(id, userID string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan *Event, sendBufferSize),
		id:     id,
		userID: userID,
		subs:   newSubscriptions(),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.sendResponse(NewErrorResponse("error", "invalid command format"))
			continue
		}
		c.handleCommand(&cmd)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleCommand(cmd *Command) {
	switch cmd.Action {
	case CmdSubscribe:
		if cmd.SessionID == "" {
			c.sendResponse(NewErrorResponse(CmdSubscribe, "session_id required"))
			return
		}
		c.hub.Subscribe(c, cmd.SessionID)
		c.sendResponse(NewSuccessResponse(CmdSubscribe, "subscribed to session: "+cmd.SessionID))

	case CmdUnsubscribe:
		if cmd.SessionID == "" {
			c.sendResponse(NewErrorResponse(CmdUnsubscribe, "session_id required"))
			return
		}
		c.hub.Unsubscribe(c, cmd.SessionID)
		c.sendResponse(NewSuccessResponse(CmdUnsubscribe, "unsubscribed from session: "+cmd.SessionID))

	default:
		c.sendResponse(NewErrorResponse("error", "unknown command: "+cmd.Action))
	}
}

func (c *Client) sendResponse(resp *Response) {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteJSON(resp)
}
