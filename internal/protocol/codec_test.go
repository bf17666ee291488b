package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Tyrowin/gocollect/internal/game"
)

func sampleInit() Init {
	p := game.Player{ID: "a", X: 10, Y: 20, Width: game.PlayerSize, Height: game.PlayerSize}
	return Init{
		Player:      p,
		Players:     game.Roster{"a": p},
		Collectible: game.Collectible{ID: "c0", X: 1, Y: 2, Value: 7, Width: 16, Height: 16},
	}
}

// TestCodecsCarryInit sends an init snapshot through both codecs and checks
// that the payload survives intact.
func TestCodecsCarryInit(t *testing.T) {
	for _, c := range []Codec{JSON(), Msgpack()} {
		t.Run(c.Name(), func(t *testing.T) {
			want := sampleInit()
			msg, err := NewMessage(c, EventInit, want)
			if err != nil {
				t.Fatalf("NewMessage: %v", err)
			}
			if msg.Event != EventInit {
				t.Errorf("Expected event %q, got %q", EventInit, msg.Event)
			}
			got, err := DecodePayload[Init](msg)
			if err != nil {
				t.Fatalf("DecodePayload: %v", err)
			}
			if got.Player != want.Player || got.Collectible != want.Collectible {
				t.Errorf("Expected %+v, got %+v", want, got)
			}
			if got.Players["a"] != want.Players["a"] || len(got.Players) != 1 {
				t.Errorf("Expected roster %v, got %v", want.Players, got.Players)
			}
		})
	}
}

// TestJSONEnvelopeShape pins the wire layout browsers depend on.
func TestJSONEnvelopeShape(t *testing.T) {
	frame, err := JSON().Encode(EventPlayerDisconnect, "abc")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(frame) != `{"event":"playerDisconnect","data":"abc"}` {
		t.Errorf("Unexpected frame %s", frame)
	}

	frame, err = JSON().Encode(EventUpdateCollectible, game.Collectible{ID: "z", Value: 3, Width: 16, Height: 16})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var envelope struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	if err := json.Unmarshal(frame, &envelope); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if envelope.Event != EventUpdateCollectible {
		t.Errorf("Expected event %q, got %q", EventUpdateCollectible, envelope.Event)
	}
	if len(envelope.Data) != 6 {
		t.Errorf("Expected 6 collectible fields, got %d in %s", len(envelope.Data), frame)
	}
	for _, key := range []string{"id", "x", "y", "value", "width", "height"} {
		if _, ok := envelope.Data[key]; !ok {
			t.Errorf("Expected collectible field %q in %s", key, frame)
		}
	}
}

// TestDecodeRejectsBadFrames covers the malformed inputs that the router
// must be able to ignore.
func TestDecodeRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  error
	}{
		{"empty", "", ErrEmptyFrame},
		{"no event", `{"data":1}`, ErrMissingEvent},
		{"blank event", `{"event":"","data":1}`, ErrMissingEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JSON().Decode([]byte(tt.frame))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := JSON().Decode([]byte("not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if _, err := Msgpack().Decode([]byte{0xc1}); err == nil {
		t.Error("Expected error for invalid msgpack")
	}
}

// TestDecodeMissingPayload verifies that an envelope without data reports
// ErrEmptyPayload when the payload is requested.
func TestDecodeMissingPayload(t *testing.T) {
	msg, err := JSON().Decode([]byte(`{"event":"collectItem"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, err := DecodePayload[string](msg); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("Expected ErrEmptyPayload, got %v", err)
	}
}

// TestDecodeWrongPayloadType verifies that a collectItem carrying an object
// fails to decode as a string.
func TestDecodeWrongPayloadType(t *testing.T) {
	msg, err := JSON().Decode([]byte(`{"event":"collectItem","data":{"id":"x"}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, err := DecodePayload[string](msg); err == nil {
		t.Error("Expected decode error for object payload")
	}
}

// TestMovementPosition covers required fields and rounding.
func TestMovementPosition(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		x, y  int
		ok    bool
	}{
		{"integers", `{"event":"playerMovement","data":{"x":5,"y":6}}`, 5, 6, true},
		{"fractions", `{"event":"playerMovement","data":{"x":5.6,"y":-1.4}}`, 6, -1, true},
		{"missing y", `{"event":"playerMovement","data":{"x":5}}`, 0, 0, false},
		{"null", `{"event":"playerMovement","data":null}`, 0, 0, false},
		{"huge", `{"event":"playerMovement","data":{"x":1e300,"y":0}}`, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := JSON().Decode([]byte(tt.frame))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			mv, err := DecodePayload[Movement](msg)
			if err != nil {
				t.Fatalf("DecodePayload: %v", err)
			}
			x, y, ok := mv.Position()
			if ok != tt.ok || x != tt.x || y != tt.y {
				t.Errorf("Expected (%d, %d, %v), got (%d, %d, %v)", tt.x, tt.y, tt.ok, x, y, ok)
			}
		})
	}
}

// TestMsgpackMovementFromIntegers verifies that msgpack clients may send
// integer coordinates.
func TestMsgpackMovementFromIntegers(t *testing.T) {
	msg, err := NewMessage(Msgpack(), EventPlayerMovement, map[string]int{"x": 12, "y": 34})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	mv, err := DecodePayload[Movement](msg)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	x, y, ok := mv.Position()
	if !ok || x != 12 || y != 34 {
		t.Errorf("Expected (12, 34, true), got (%d, %d, %v)", x, y, ok)
	}
}

// TestLookup checks subprotocol resolution.
func TestLookup(t *testing.T) {
	for name, want := range map[string]string{"": CodecJSON, "json": CodecJSON, "msgpack": CodecMsgpack} {
		c, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if c.Name() != want {
			t.Errorf("Lookup(%q) = %q, want %q", name, c.Name(), want)
		}
	}
	if _, err := Lookup("xml"); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("Expected ErrUnknownCodec, got %v", err)
	}
	if JSON().Binary() || !Msgpack().Binary() {
		t.Error("Expected JSON text frames and msgpack binary frames")
	}
}
