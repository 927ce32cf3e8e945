// Package hub provides connection management for WebSocket clients. Each
// connection has a single writer pump, so deliveries to one client are never
// concurrent with themselves.
package hub

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrBufferFull is returned when a connection's send buffer is full.
var ErrBufferFull = errors.New("send buffer full")

// Connection represents a single WebSocket connection.
type Connection struct {
	ID     string
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte
	hub    *Hub
	mu     sync.Mutex
}

// UserMessage is used to broadcast a message to all of a user's connections.
type UserMessage struct {
	UserID int64
	Data   []byte
}

// Hub manages all WebSocket connections.
type Hub struct {
	// Connections indexed by connection ID
	connections map[string]*Connection

	// users maps a user ID to the set of connection IDs bound to it
	users map[int64]map[string]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *UserMessage

	mu sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		users:       make(map[int64]map[string]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *UserMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn.ID] = conn
			userID := conn.UserID
			if userID != 0 {
				if h.users[userID] == nil {
					h.users[userID] = make(map[string]bool)
				}
				h.users[userID][conn.ID] = true
			}
			h.mu.Unlock()
			log.Printf("Connection registered: %s (user: %d)", conn.ID, userID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				if conn.UserID != 0 && h.users[conn.UserID] != nil {
					delete(h.users[conn.UserID], conn.ID)
					if len(h.users[conn.UserID]) == 0 {
						delete(h.users, conn.UserID)
					}
				}
				close(conn.Send)
			}
			h.mu.Unlock()
			log.Printf("Connection unregistered: %s", conn.ID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			if connIDs, ok := h.users[msg.UserID]; ok {
				for connID := range connIDs {
					if conn, exists := h.connections[connID]; exists {
						select {
						case conn.Send <- msg.Data:
						default:
							// Buffer full, close the connection
							log.Printf("Connection %s buffer full, closing", connID)
							go h.Unregister(conn)
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NewConnection creates a new connection for the hub.
func (h *Hub) NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ID:   uuid.New().String(),
		Conn: ws,
		Send: make(chan []byte, 256),
		hub:  h,
	}
}

// Register registers a connection with the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BindUser binds a connection to an authenticated user.
func (h *Hub) BindUser(conn *Connection, userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn.UserID != 0 && h.users[conn.UserID] != nil {
		delete(h.users[conn.UserID], conn.ID)
		if len(h.users[conn.UserID]) == 0 {
			delete(h.users, conn.UserID)
		}
	}

	conn.UserID = userID
	if h.users[userID] == nil {
		h.users[userID] = make(map[string]bool)
	}
	h.users[userID][conn.ID] = true
}

// Broadcast sends a message to all connections of a user.
func (h *Hub) Broadcast(userID int64, data []byte) {
	h.broadcast <- &UserMessage{UserID: userID, Data: data}
}

// BroadcastJSON sends a JSON message to all connections of a user.
func (h *Hub) BroadcastJSON(userID int64, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(userID, data)
	return nil
}

// SendJSONToConnection sends a JSON message to a specific connection.
func (h *Hub) SendJSONToConnection(conn *Connection, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case conn.Send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// HasActiveConnections checks if a user has any active connections.
func (h *Hub) HasActiveConnections(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	connIDs, ok := h.users[userID]
	return ok && len(connIDs) > 0
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// WriteMessage writes a message to the connection with proper locking.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// SetWriteDeadline sets the write deadline for the connection.
func (c *Connection) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline for the connection.
func (c *Connection) SetReadDeadline(t time.Time) error {
	return c.Conn.SetReadDeadline(t)
}

// Close closes the underlying websocket.
func (c *Connection) Close() error {
	return c.Conn.Close()
}
