package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Message tells a client that cached views are stale.
type Message struct {
	Type      string    `json:"type"`
	Paths     []string  `json:"paths"`
	Timestamp time.Time `json:"timestamp"`
}

const MsgInvalidate = "invalidate"

// Client is one websocket connection of a signed-in user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// Hub fans invalidations out to every connection of a user. Clients that
// cannot keep up are dropped.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*Client]bool
	upgrader websocket.Upgrader
	origins  map[string]bool
}

// NewHub accepts upgrades from the serving host and from allowedOrigins,
// given as scheme://host[:port].
func NewHub(allowedOrigins ...string) *Hub {
	h := &Hub{
		clients: make(map[string]map[*Client]bool),
		origins: make(map[string]bool),
	}
	for _, o := range allowedOrigins {
		if o = normalizeOrigin(o); o != "" {
			h.origins[o] = true
		}
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin allows requests without an Origin header, same-host requests
// and the configured origins.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return h.origins[normalizeOrigin(origin)]
}

func normalizeOrigin(origin string) string {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// Invalidate pushes paths to every open connection of userID.
func (h *Hub) Invalidate(userID string, paths ...string) {
	if userID == "" || len(paths) == 0 {
		return
	}
	payload, err := json.Marshal(Message{Type: MsgInvalidate, Paths: paths, Timestamp: time.Now()})
	if err != nil {
		log.Printf("Failed to marshal invalidation: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			h.removeLocked(client)
		}
	}
}

// Connected reports how many connections userID has open.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*Client]bool)
	}
	h.clients[c.userID][c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	clients, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.userID)
	}
}
