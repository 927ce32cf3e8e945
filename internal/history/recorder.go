// Package history records completed exchanges for audit.
package history

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
)

// Appender is the slice of the store the recorder needs.
type Appender interface {
	AppendChatRecord(ctx context.Context, rec *domain.ChatRecord) error
}

// Recorder forwards exchanges to the persistence collaborator. Writes are
// best-effort: failures are logged and swallowed, never retried, and never
// fail the user-visible resolution.
type Recorder struct {
	store Appender
}

// NewRecorder creates a new recorder.
func NewRecorder(store Appender) *Recorder {
	return &Recorder{store: store}
}

// Record appends one exchange to the chat history.
func (r *Recorder) Record(ctx context.Context, userID int64, utterance, response string) {
	rec := &domain.ChatRecord{
		RecordID:  "rec_" + uuid.New().String()[:8],
		UserID:    userID,
		Utterance: utterance,
		Response:  response,
		CreatedAt: time.Now(),
	}
	if err := r.store.AppendChatRecord(ctx, rec); err != nil {
		log.Printf("ERROR: failed to record chat history for user %d: %v", userID, err)
	}
}
