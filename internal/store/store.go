// Package store defines the persistence interface and implementations.
package store

import (
	"context"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
)

// Store defines the interface for data persistence. All responder I/O goes
// through it; the engine never touches the database directly.
type Store interface {
	// User operations
	UserByEmail(ctx context.Context, email string) (*domain.User, string, error)
	CreateUser(ctx context.Context, name, email, passwordHash string) (*domain.User, error)

	// FAQ operations
	FindFAQAnswer(ctx context.Context, query string) (string, bool, error)
	ListFAQs(ctx context.Context) ([]domain.FAQ, error)

	// Keyword operations
	KeywordResponses(ctx context.Context) (map[string]string, error)

	// Chat history operations
	AppendChatRecord(ctx context.Context, rec *domain.ChatRecord) error
	ChatHistory(ctx context.Context, userID int64, limit int) ([]domain.ChatRecord, error)

	// Lifecycle
	Close() error
}
