package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	JSON    = "json"
	MsgPack = "msgpack"
)

// Envelope is the frame every outbound event travels in.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Codec turns events into frames and frames into commands. Inbound frames are
// flat objects carrying a "type" key next to the command fields.
type Codec interface {
	Name() string
	Binary() bool
	Encode(msgType string, data any) ([]byte, error)
	Decode(frame []byte, v any) error
}

// ByName returns the codec for a connection's requested encoding. Unknown or
// empty names get JSON.
func ByName(name string) Codec {
	if name == MsgPack {
		return msgpackCodec{}
	}
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return JSON }
func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Encode(msgType string, data any) ([]byte, error) {
	return json.Marshal(Envelope{Type: msgType, Data: data})
}

func (jsonCodec) Decode(frame []byte, v any) error {
	if err := json.Unmarshal(frame, v); err != nil {
		return fmt.Errorf("decode json frame: %w", err)
	}
	return nil
}

// msgpackCodec reuses the json struct tags, omitempty included, so both
// encodings produce the same keys.
type msgpackCodec struct{}

func (msgpackCodec) Name() string { return MsgPack }
func (msgpackCodec) Binary() bool { return true }

func (msgpackCodec) Encode(msgType string, data any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(Envelope{Type: msgType, Data: data}); err != nil {
		return nil, fmt.Errorf("encode msgpack frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) Decode(frame []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(frame))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode msgpack frame: %w", err)
	}
	return nil
}
