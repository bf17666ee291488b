package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec names double as WebSocket subprotocol names.
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

var (
	// ErrEmptyFrame is returned when decoding a zero-length frame.
	ErrEmptyFrame = errors.New("protocol: empty frame")
	// ErrMissingEvent is returned when a frame carries no event name.
	ErrMissingEvent = errors.New("protocol: missing event name")
	// ErrEmptyPayload is returned when a payload is required but absent.
	ErrEmptyPayload = errors.New("protocol: empty payload")
	// ErrUnknownCodec is returned by Lookup for an unsupported name.
	ErrUnknownCodec = errors.New("protocol: unknown codec")
)

// Codec puts envelopes on the wire and takes them off again.
type Codec interface {
	// Name is the codec name and WebSocket subprotocol.
	Name() string
	// Binary reports whether frames must be sent as binary messages.
	Binary() bool
	// Encode wraps payload in an envelope for event.
	Encode(event string, payload any) ([]byte, error)
	// Decode parses an envelope. The payload stays undecoded until
	// Message.Decode is called.
	Decode(frame []byte) (Message, error)
	// Unmarshal decodes a raw payload taken from a Message.
	Unmarshal(data []byte, v any) error
}

// Message is a decoded envelope with its payload still in wire form.
type Message struct {
	Event string
	Data  []byte
	codec Codec
}

// Decode unmarshals the payload into v using the codec the message came from.
func (m Message) Decode(v any) error {
	if m.codec == nil {
		return ErrUnknownCodec
	}
	if len(m.Data) == 0 {
		return fmt.Errorf("decode %q payload: %w", m.Event, ErrEmptyPayload)
	}
	if err := m.codec.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %q payload: %w", m.Event, err)
	}
	return nil
}

// DecodePayload decodes the payload of msg into a new T.
func DecodePayload[T any](msg Message) (T, error) {
	var out T
	err := msg.Decode(&out)
	return out, err
}

// Subprotocols lists the supported codecs in order of preference.
var Subprotocols = []string{CodecJSON, CodecMsgpack}

var (
	jsonCodec    Codec = JSONCodec{}
	msgpackCodec Codec = MsgpackCodec{}
)

// Lookup returns the codec for a subprotocol name. The empty name selects JSON.
func Lookup(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return jsonCodec, nil
	case CodecMsgpack:
		return msgpackCodec, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// JSON returns the JSON text codec.
func JSON() Codec { return jsonCodec }

// Msgpack returns the msgpack binary codec.
func Msgpack() Codec { return msgpackCodec }

type outboundEnvelope struct {
	Event string `json:"event" msgpack:"event"`
	Data  any    `json:"data" msgpack:"data"`
}

// JSONCodec encodes envelopes as JSON text frames.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Encode(event string, payload any) ([]byte, error) {
	if event == "" {
		return nil, ErrMissingEvent
	}
	return json.Marshal(outboundEnvelope{Event: event, Data: payload})
}

func (c JSONCodec) Decode(frame []byte) (Message, error) {
	if len(frame) == 0 {
		return Message{}, ErrEmptyFrame
	}
	var env struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(frame, &env); err != nil {
		return Message{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Event == "" {
		return Message{}, ErrMissingEvent
	}
	return Message{Event: env.Event, Data: env.Data, codec: c}, nil
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// MsgpackCodec encodes envelopes as msgpack binary frames.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return CodecMsgpack }

func (MsgpackCodec) Binary() bool { return true }

func (MsgpackCodec) Encode(event string, payload any) ([]byte, error) {
	if event == "" {
		return nil, ErrMissingEvent
	}
	return msgpack.Marshal(outboundEnvelope{Event: event, Data: payload})
}

func (c MsgpackCodec) Decode(frame []byte) (Message, error) {
	if len(frame) == 0 {
		return Message{}, ErrEmptyFrame
	}
	var env struct {
		Event string             `msgpack:"event"`
		Data  msgpack.RawMessage `msgpack:"data"`
	}
	if err := msgpack.Unmarshal(frame, &env); err != nil {
		return Message{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Event == "" {
		return Message{}, ErrMissingEvent
	}
	return Message{Event: env.Event, Data: env.Data, codec: c}, nil
}

func (MsgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// NewMessage encodes payload with c and decodes it back into a Message, the
// same shape the server sees for a frame read off the wire.
func NewMessage(c Codec, event string, payload any) (Message, error) {
	frame, err := c.Encode(event, payload)
	if err != nil {
		return Message{}, err
	}
	return c.Decode(frame)
}
