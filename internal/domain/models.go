// Package domain defines the core domain models for the support responder.
package domain

import "time"

// Role identifies who produced a chat line.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// User represents an authenticated account. The responder treats it as an
// opaque identity; only the ID is used when recording history.
type User struct {
	ID    int64  `json:"user_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChatRecord is one persisted exchange: what the user said and what the bot
// answered. Write-once, append-only.
type ChatRecord struct {
	RecordID  string    `json:"record_id"`
	UserID    int64     `json:"user_id"`
	Utterance string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// FAQ is a stored question/answer pair used by the FAQ lookup stage.
type FAQ struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Delivery is one resolved line pushed to the display sink.
type Delivery struct {
	Text string `json:"text"`
	Role Role   `json:"role"`
}
