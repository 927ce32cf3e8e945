// Package service wires the responder together: authentication, per-session
// dispatch engines, catalog reloads and history queries.
package service

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/auth"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/catalog"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/config"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/engine"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/history"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/hub"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/policy"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/store"
)

// session is one active conversation: its dispatch engine and its submit
// rate limiter.
type session struct {
	user    *domain.User
	engine  *engine.Engine
	limiter *rate.Limiter
}

// Service coordinates the responder's components.
type Service struct {
	store    store.Store
	config   *config.Config
	catalog  *catalog.Catalog
	auth     *auth.Service
	hub      *hub.Hub
	policy   *policy.Engine
	recorder *history.Recorder

	mu       sync.Mutex
	sessions map[int64]*session
	tokens   map[string]*domain.User
}

// New creates a new service.
func New(st store.Store, cfg *config.Config, cat *catalog.Catalog, h *hub.Hub, pol *policy.Engine) *Service {
	return &Service{
		store:    st,
		config:   cfg,
		catalog:  cat,
		auth:     auth.NewService(st),
		hub:      h,
		policy:   pol,
		recorder: history.NewRecorder(st),
		sessions: make(map[int64]*session),
		tokens:   make(map[string]*domain.User),
	}
}

// Hub exposes the connection hub to the transport layer.
func (s *Service) Hub() *hub.Hub {
	return s.hub
}

// ReloadCatalog swaps in a fresh keyword table. In-flight resolutions keep
// their old snapshot.
func (s *Service) ReloadCatalog(ctx context.Context) int {
	s.catalog.Reload(ctx, s.store)
	return s.catalog.Snapshot().Len()
}

// History returns up to limit recent exchanges for a user, oldest first.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]domain.ChatRecord, error) {
	return s.store.ChatHistory(ctx, userID, limit)
}

// Shutdown drains every session engine.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	engines := make([]*engine.Engine, 0, len(s.sessions))
	for _, sess := range s.sessions {
		engines = append(engines, sess.engine)
	}
	s.sessions = make(map[int64]*session)
	s.mu.Unlock()

	var firstErr error
	for _, eng := range engines {
		if err := eng.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
