package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/engine"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/policy"
)

// Canned responses for gated utterances.
const (
	HandoffResponse     = "Let me connect you to a human agent. Please hold on."
	BlockedResponse     = "I'm sorry, but I can't help with that."
	RateLimitedResponse = "You're sending messages very quickly. Please slow down a little."
)

// Submit routes one utterance from an authenticated user into their session
// engine. It never blocks on resolution; rate-limited submissions get a
// canned bot line instead of an error.
func (s *Service) Submit(user *domain.User, utterance string) error {
	sess := s.sessionFor(user)

	if !sess.limiter.Allow() {
		sink := s.sinkFor(user.ID)
		sink.Deliver(utterance, domain.RoleUser)
		sink.Deliver(RateLimitedResponse, domain.RoleBot)
		return nil
	}

	return sess.engine.Submit(utterance)
}

// sessionFor returns the user's session, creating it on first use. Each user
// gets their own engine instance and conversation context.
func (s *Service) sessionFor(user *domain.User) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[user.ID]; ok {
		return sess
	}

	sess := &session{
		user:    user,
		limiter: rate.NewLimiter(rate.Limit(s.config.RatePerSecond), s.config.RateBurst),
		engine: engine.New(engine.Options{
			User:     user,
			Workers:  s.config.Workers,
			Catalog:  s.catalog,
			FAQ:      s.store.FindFAQAnswer,
			Sink:     s.sinkFor(user.ID),
			Recorder: s.recorder,
			Notifier: notifierFunc(s.notify),
			Gate:     s.gate,
		}),
	}
	s.sessions[user.ID] = sess
	return sess
}

// gate evaluates the inbound policy. Policy failures fail open: the
// utterance proceeds to normal resolution.
func (s *Service) gate(ctx context.Context, text string, userID int64) (string, bool) {
	if s.policy == nil {
		return "", false
	}
	decision, err := s.policy.Evaluate(ctx, map[string]interface{}{
		"text":    text,
		"user_id": userID,
	})
	if err != nil {
		log.Printf("ERROR: inbound policy evaluation failed: %v", err)
		return "", false
	}
	switch decision {
	case policy.DecisionHandoff:
		return HandoffResponse, true
	case policy.DecisionBlock:
		return BlockedResponse, true
	}
	return "", false
}

// notify pushes a fire-and-forget cue to the user's connections.
func (s *Service) notify(userID int64) {
	if s.hub == nil {
		return
	}
	if err := s.hub.BroadcastJSON(userID, domain.NotifyMessage{
		BaseMessage: domain.BaseMessage{Type: domain.TypeNotify, Ts: time.Now().UnixMilli()},
		Cue:         "message_received",
	}); err != nil {
		log.Printf("WARN: failed to send notify cue: %v", err)
	}
}

type notifierFunc func(userID int64)

func (f notifierFunc) Notify(userID int64) { f(userID) }
