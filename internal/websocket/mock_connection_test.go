package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type mockMessage struct {
	Type int
	Data []byte
}

// mockConnection replays queued frames and records writes
type mockConnection struct {
	mu      sync.Mutex
	reads   [][]byte
	written []mockMessage
	closed  bool
}

func newMockConnection(reads ...string) *mockConnection {
	m := &mockConnection{}
	for _, r := range reads {
		m.reads = append(m.reads, []byte(r))
	}
	return m
}

func (m *mockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("connection closed")
	}
	m.written = append(m.written, mockMessage{Type: messageType, Data: data})
	return nil
}

func (m *mockConnection) ReadMessage() (int, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.reads) == 0 {
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
	next := m.reads[0]
	m.reads = m.reads[1:]
	return websocket.TextMessage, next, nil
}

func (m *mockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConnection) SetReadDeadline(time.Time) error   { return nil }
func (m *mockConnection) SetWriteDeadline(time.Time) error  { return nil }
func (m *mockConnection) SetReadLimit(int64)                {}
func (m *mockConnection) SetPongHandler(func(string) error) {}
func (m *mockConnection) RemoteAddr() string                { return "127.0.0.1:9999" }

func (m *mockConnection) messages() []mockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mockMessage(nil), m.written...)
}
