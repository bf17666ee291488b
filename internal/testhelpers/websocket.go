package testhelpers

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/gocollect/internal/protocol"
)

// WebSocketURL converts an httptest server URL into the game endpoint URL.
func WebSocketURL(serverURL string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
}

// ConnectWebSocket dials url with the given Origin header and offers
// subprotocol when it is not empty.
func ConnectWebSocket(url, origin, subprotocol string) (*websocket.Conn, *http.Response, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	if subprotocol != "" {
		dialer.Subprotocols = []string{subprotocol}
	}

	headers := http.Header{}
	if origin != "" {
		headers.Set("Origin", origin)
	}

	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, resp, err
}

// Peer is a protocol-aware test client.
type Peer struct {
	Conn    *websocket.Conn
	Codec   protocol.Codec
	pending []protocol.Message
}

// Dial connects a Peer and fails the test on error.
func Dial(t *testing.T, url, origin string, codec protocol.Codec) *Peer {
	t.Helper()
	conn, _, err := ConnectWebSocket(url, origin, codec.Name())
	if err != nil {
		t.Fatalf("Failed to connect to %s: %v", url, err)
	}
	return &Peer{Conn: conn, Codec: codec}
}

// Send encodes and writes one event.
func (p *Peer) Send(event string, payload any) error {
	frame, err := p.Codec.Encode(event, payload)
	if err != nil {
		return err
	}
	messageType := websocket.TextMessage
	if p.Codec.Binary() {
		messageType = websocket.BinaryMessage
	}
	return p.Conn.WriteMessage(messageType, frame)
}

// Next returns the next event, reading a new frame if nothing is buffered.
// Text frames may carry several newline separated envelopes.
func (p *Peer) Next(timeout time.Duration) (protocol.Message, error) {
	for len(p.pending) == 0 {
		if err := p.Conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return protocol.Message{}, err
		}
		messageType, frame, err := p.Conn.ReadMessage()
		if err != nil {
			return protocol.Message{}, err
		}
		parts := [][]byte{frame}
		if messageType == websocket.TextMessage {
			parts = bytes.Split(frame, []byte{'\n'})
		}
		for _, part := range parts {
			msg, err := p.Codec.Decode(part)
			if err != nil {
				return protocol.Message{}, err
			}
			p.pending = append(p.pending, msg)
		}
	}
	msg := p.pending[0]
	p.pending = p.pending[1:]
	return msg, nil
}

// Expect reads until an event named event arrives and fails the test if it
// does not arrive within timeout. Other events are discarded.
func (p *Peer) Expect(t *testing.T, event string, timeout time.Duration) protocol.Message {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			t.Fatalf("Timed out waiting for %q", event)
		}
		msg, err := p.Next(remaining)
		if err != nil {
			t.Fatalf("Error waiting for %q: %v", event, err)
		}
		if msg.Event == event {
			return msg
		}
	}
}

// ExpectNext fails the test unless the very next event is named event.
func (p *Peer) ExpectNext(t *testing.T, event string, timeout time.Duration) protocol.Message {
	t.Helper()
	msg, err := p.Next(timeout)
	if err != nil {
		t.Fatalf("Error waiting for %q: %v", event, err)
	}
	if msg.Event != event {
		t.Fatalf("Expected event %q, got %q", event, msg.Event)
	}
	return msg
}

// ExpectNone fails the test if any event arrives within timeout.
func (p *Peer) ExpectNone(t *testing.T, timeout time.Duration) {
	t.Helper()
	msg, err := p.Next(timeout)
	if err == nil {
		t.Fatalf("Expected no event, got %q", msg.Event)
	}
}

// Close sends a normal close frame and closes the connection.
func (p *Peer) Close() error {
	err := p.Conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		_ = p.Conn.Close()
		return err
	}
	return p.Conn.Close()
}

// Decode decodes the payload of msg into T and fails the test on error.
func Decode[T any](t *testing.T, msg protocol.Message) T {
	t.Helper()
	v, err := protocol.DecodePayload[T](msg)
	if err != nil {
		t.Fatalf("Failed to decode %q payload: %v", msg.Event, err)
	}
	return v
}
