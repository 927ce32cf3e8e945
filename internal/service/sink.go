package service

import (
	"log"
	"time"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/engine"
)

// hubSink delivers resolved chat lines to all of a user's connections. The
// hub's per-connection writer pump serializes the actual socket writes, so
// delivery is never concurrent with itself on one connection.
type hubSink struct {
	svc    *Service
	userID int64
}

func (s *Service) sinkFor(userID int64) engine.Sink {
	return &hubSink{svc: s, userID: userID}
}

// Deliver pushes one chat line. Delivery failures are logged and dropped;
// a client with no open connection simply misses the live message and will
// see it again through the history endpoint.
func (h *hubSink) Deliver(text string, role domain.Role) {
	if h.svc.hub == nil {
		return
	}
	if err := h.svc.hub.BroadcastJSON(h.userID, domain.ChatMessage{
		BaseMessage: domain.BaseMessage{Type: domain.TypeMessage, Ts: time.Now().UnixMilli()},
		Role:        string(role),
		Content:     text,
	}); err != nil {
		log.Printf("ERROR: failed to deliver message to user %d: %v", h.userID, err)
	}
}
