// Package ws provides the WebSocket endpoint clients chat over.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/config"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/hub"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/service"
)

// Server handles WebSocket connections.
type Server struct {
	cfg      *config.Config
	service  *service.Service
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, svc *service.Service) *Server {
	return &Server{
		cfg:     cfg,
		service: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for MVP
				return true
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection lifecycle.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	h := s.service.Hub()
	conn := h.NewConnection(ws)
	h.Register(conn)

	ws.SetReadLimit(s.cfg.MaxMessageSize)

	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump reads messages from the WebSocket connection.
func (s *Server) readPump(conn *hub.Connection) {
	h := s.service.Hub()
	defer func() {
		h.Unregister(conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		s.handleMessage(conn, message)
	}
}

// writePump writes messages to the WebSocket connection. It is the only
// goroutine writing chat traffic to the socket, so deliveries to one client
// are serialized.
func (s *Server) writePump(conn *hub.Connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches incoming messages to appropriate handlers.
func (s *Server) handleMessage(conn *hub.Connection, data []byte) {
	var baseMsg domain.BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		s.sendError(conn, domain.ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	switch baseMsg.Type {
	case domain.TypeHello:
		s.handleHello(conn, data)
	case domain.TypeUserMessage:
		s.handleUserMessage(conn, data)
	default:
		s.sendError(conn, domain.ErrorCodeInvalidMessage, "unknown message type: "+baseMsg.Type)
	}
}

// handleHello binds the connection to the user behind the presented token.
func (s *Server) handleHello(conn *hub.Connection, data []byte) {
	var msg domain.HelloMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, domain.ErrorCodeInvalidMessage, "invalid hello message")
		return
	}

	user, ok := s.service.UserByToken(msg.Token)
	if !ok {
		s.sendError(conn, domain.ErrorCodeUnauthorized, "unknown session token")
		return
	}

	s.service.Hub().BindUser(conn, user.ID)

	ack := domain.HelloAckMessage{
		BaseMessage: domain.BaseMessage{Type: domain.TypeHelloAck, Ts: time.Now().UnixMilli()},
		UserID:      user.ID,
		Name:        user.Name,
	}
	if err := s.service.Hub().SendJSONToConnection(conn, ack); err != nil {
		log.Printf("Failed to send hello_ack: %v", err)
	}
}

// handleUserMessage submits one utterance into the user's session engine.
func (s *Server) handleUserMessage(conn *hub.Connection, data []byte) {
	if conn.UserID == 0 {
		s.sendError(conn, domain.ErrorCodeUnauthorized, "hello required before messages")
		return
	}

	var msg domain.UserMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, domain.ErrorCodeInvalidMessage, "invalid user message")
		return
	}

	user, ok := s.service.UserByID(conn.UserID)
	if !ok {
		s.sendError(conn, domain.ErrorCodeUnauthorized, "unknown user")
		return
	}

	if err := s.service.Submit(user, msg.Content); err != nil {
		log.Printf("ERROR: failed to submit utterance: %v", err)
		s.sendError(conn, domain.ErrorCodeInternal, "failed to submit message")
	}
}

func (s *Server) sendError(conn *hub.Connection, code, message string) {
	errMsg := domain.ErrorMessage{
		BaseMessage: domain.BaseMessage{Type: domain.TypeError, Ts: time.Now().UnixMilli()},
		Code:        code,
		Message:     message,
	}
	if err := s.service.Hub().SendJSONToConnection(conn, errMsg); err != nil {
		log.Printf("Failed to send error message: %v", err)
	}
}
