// Package events contains the WebSocket message contracts published while
// catalogs are validated.
package events

import (
	"time"

	"github.com/google/uuid"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeRunStarted   MessageType = "run:started"
	MessageTypeRunCompleted MessageType = "run:completed"
	MessageTypeRunFailed    MessageType = "run:failed"

	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// Run statuses carried by RunEvent
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// NewMessage stamps a message with a fresh ID and the current time
func NewMessage(t MessageType, traceID string, data interface{}) WebSocketMessage {
	return WebSocketMessage{
		BaseMessage: BaseMessage{
			ID:        uuid.NewString(),
			Type:      t,
			Timestamp: time.Now().UTC(),
			TraceID:   traceID,
		},
		Data: data,
	}
}

// RunEvent describes the progress or outcome of one validation run
type RunEvent struct {
	RunID         string  `json:"run_id"`
	Source        string  `json:"source"`
	Fingerprint   string  `json:"fingerprint,omitempty"`
	Status        string  `json:"status"`
	Rows          int     `json:"rows,omitempty"`
	RecordsAtRisk int     `json:"records_at_risk,omitempty"`
	RiskPercent   float64 `json:"risk_percent,omitempty"`
	DurationMS    int64   `json:"duration_ms,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// ConnectEvent greets a newly registered client
type ConnectEvent struct {
	ClientID      string `json:"client_id"`
	ServerVersion string `json:"server_version"`
	APIVersion    string `json:"api_version"`
}

// ErrorEvent is sent to a single client when its message cannot be handled
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
