package websocket

import (
	"net/http"
	"sync"

	"backend/internal/scope"
	"backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for dev simplicity
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents a single connected WebSocket client, pinned to one tenant
type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	TenantID uuid.UUID
}

// Event is a message delivered to one tenant's clients
type Event struct {
	TenantID uuid.UUID
	Payload  []byte
}

// Hub maintains the set of active clients and delivers tenant-segmented
// notice events. A client only ever receives events for its own tenant.
type Hub struct {
	clients    map[*Client]bool
	Events     chan Event
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

// NewHub initializes a new WS Hub instance
func NewHub() *Hub {
	return &Hub{
		Events:     make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the core dispatch loop for WebSocket events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.L().Debug("websocket client connected", zap.String("tenant_id", client.TenantID.String()))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		case event := <-h.Events:
			h.mu.Lock()
			for client := range h.clients {
				if client.TenantID != event.TenantID {
					continue
				}
				select {
				case client.Send <- event.Payload:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for the tenant's clients without blocking the caller
func (h *Hub) Publish(tenantID uuid.UUID, payload []byte) {
	select {
	case h.Events <- Event{TenantID: tenantID, Payload: payload}:
	default:
		logger.L().Warn("websocket event dropped, hub backlog full")
	}
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		w, err := c.Conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)

		// Fast track writing queued messages
		n := len(c.Send)
		for i := 0; i < n; i++ {
			_, _ = w.Write([]byte{'\n'})
			_, _ = w.Write(<-c.Send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()
	for {
		// Reading only to detect disconnects; clients do not send
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L().Debug("websocket read error", zap.Error(err))
			}
			break
		}
	}
}

// ServeWs upgrades an authenticated, tenant-resolved request to a websocket.
// The auth and tenant middleware have already run; a request without both is
// rejected here.
func ServeWs(hub *Hub, c *gin.Context) {
	ctx := c.Request.Context()
	if _, ok := scope.PrincipalFrom(ctx); !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	tenant, ok := scope.TenantFrom(ctx)
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if !tenant.IsActive() {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 256), TenantID: tenant.ID}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
