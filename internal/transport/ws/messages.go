package ws

import "time"

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types. The socket is push-only: all game actions
// go through the HTTP API, so ping is the only client message handled.
const (
	MsgPing MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected MessageType = "connected"
	MsgEvent     MessageType = "event"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type MessageType `json:"type"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ConnectedPayload is the payload for the connected message
type ConnectedPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

// ErrorPayload is the payload for the error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeGameNotFound   = "GAME_NOT_FOUND"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
