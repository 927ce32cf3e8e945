package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
)

// Login verifies credentials and issues a session token for the websocket
// handshake.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	return user, s.issueToken(user), nil
}

// Register creates a new account and issues a session token.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	user, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		return nil, "", err
	}
	return user, s.issueToken(user), nil
}

// UserByToken resolves a session token back to its user.
func (s *Service) UserByToken(token string) (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.tokens[token]
	return user, ok
}

// UserByID resolves a user ID from an already-bound connection to its user.
func (s *Service) UserByID(userID int64) (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.tokens {
		if user.ID == userID {
			return user, true
		}
	}
	return nil, false
}

func (s *Service) issueToken(user *domain.User) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.tokens[token] = user
	s.mu.Unlock()
	return token
}
