package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Wire protocol definitions
// every text frame is one JSON envelope: {"event": "<name>", "data": <any JSON>}

const ( // event names
	EventTest         = "test"          // client -> server, arbitrary payload
	EventTestResponse = "test-response" // server -> client, AckPayload
)

const TestAckMessage = "테스트 응답!"

var ErrMissingEvent = errors.New("envelope has no event name")

// Envelope is a single realtime message on the wire
type Envelope struct {
	Event string          `json:"event"`          // event name used for dispatch
	Data  json.RawMessage `json:"data,omitempty"` // untouched payload, any JSON value
}

// AckPayload is the fixed body sent back for a test event
type AckPayload struct {
	Message string `json:"message"`
}

// constructor new envelope, data is marshalled eagerly
func NewEnvelope(event string, data any) (*Envelope, error) {
	if event == "" {
		return nil, ErrMissingEvent
	}
	env := &Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal %q payload: %w", event, err)
		}
		env.Data = raw
	}
	return env, nil
}

// ToJSON: marshal Envelope to a text frame
func (e *Envelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EnvelopeFromJSON: unmarshal a text frame, rejecting frames without an event name
func EnvelopeFromJSON(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Event == "" {
		return nil, ErrMissingEvent
	}
	return &env, nil
}
