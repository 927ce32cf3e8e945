package domain

// WebSocket message types from client to server
const (
	TypeHello       = "hello"
	TypeUserMessage = "user_message"
)

// WebSocket message types from server to client
const (
	TypeHelloAck = "hello_ack"
	TypeMessage  = "message"
	TypeNotify   = "notify"
	TypeError    = "error"
)

// Error codes sent to clients
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeUnauthorized   = "unauthorized"
	ErrorCodeRateLimited    = "rate_limited"
	ErrorCodeInternal       = "internal_error"
)

// BaseMessage contains common fields for all websocket messages.
type BaseMessage struct {
	Type string `json:"type"`
	Ts   int64  `json:"ts"`
}

// HelloMessage is sent by a client to bind the connection to its session.
type HelloMessage struct {
	BaseMessage
	Token string `json:"token"`
}

// HelloAckMessage is sent after a successful hello.
type HelloAckMessage struct {
	BaseMessage
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// UserMessage carries one utterance from the client.
type UserMessage struct {
	BaseMessage
	Content string `json:"content"`
}

// ChatMessage carries one resolved chat line to the client.
type ChatMessage struct {
	BaseMessage
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NotifyMessage is a fire-and-forget audio/visual cue for the client.
type NotifyMessage struct {
	BaseMessage
	Cue string `json:"cue"`
}

// ErrorMessage reports a client-visible failure.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}
