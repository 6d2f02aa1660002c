package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skucheck/pkg/contracts/events"
)

func TestNewClientDefaultsInvalidOptions(t *testing.T) {
	c := NewClient(NewHub(testLogger()), newMockConnection(), "", ClientOptions{PingPeriod: time.Minute, PongWait: time.Second}, testLogger())

	assert.Equal(t, DefaultClientOptions(), c.opts)
	assert.Equal(t, "127.0.0.1:9999", c.remoteAddr)
	assert.NotEmpty(t, c.ID())
}

func TestClientReadPump(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	defer hub.Stop()

	conn := newMockConnection(heartbeat, "  "+heartbeat+"\n", `{"type":"subscribe"}`)
	client := NewClient(hub, conn, "trace-r", DefaultClientOptions(), testLogger())

	client.ReadPump()

	assert.Equal(t, int64(3), client.messagesReceived)
	assert.True(t, conn.closed)

	require.Len(t, client.send, 1)
	var reply events.WebSocketMessage
	require.NoError(t, json.Unmarshal(<-client.send, &reply))
	assert.Equal(t, events.MessageTypeError, reply.Type)
	assert.Equal(t, "trace-r", reply.TraceID)
	data := reply.Data.(map[string]interface{})
	assert.Equal(t, "unsupported_message", data["code"])
}

func TestClientWritePump(t *testing.T) {
	conn := newMockConnection()
	client := NewClient(NewHub(testLogger()), conn, "", DefaultClientOptions(), testLogger())

	require.True(t, client.trySend([]byte(`{"n":1}`)))
	require.True(t, client.trySend([]byte(`{"n":2}`)))
	client.closeSend()
	client.closeSend()

	client.WritePump()

	written := conn.messages()
	require.Len(t, written, 3)
	assert.Equal(t, websocket.TextMessage, written[0].Type)
	assert.JSONEq(t, `{"n":1}`, string(written[0].Data))
	assert.JSONEq(t, `{"n":2}`, string(written[1].Data))
	assert.Equal(t, websocket.CloseMessage, written[2].Type)
	assert.True(t, conn.closed)
}

func TestClientTrySendAfterClose(t *testing.T) {
	client := NewClient(NewHub(testLogger()), newMockConnection(), "", DefaultClientOptions(), testLogger())
	client.closeSend()
	assert.False(t, client.trySend([]byte(`{}`)))
}
