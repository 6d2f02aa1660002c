package websocket

import (
	"context"
	"time"

	"skucheck/pkg/contracts/events"
)

// Connection is the subset of *websocket.Conn used by Client, so clients
// can be driven by a fake connection in tests
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	RemoteAddr() string
}

// Publisher announces validation runs to connected clients
type Publisher interface {
	PublishRun(ctx context.Context, t events.MessageType, event events.RunEvent)
}
