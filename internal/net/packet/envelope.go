package packet

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope is the wire frame for every message in both directions:
//
//	{"event": "move", "data": {...}}
//
// Data may be omitted for events without a payload (respawn).
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode builds a wire frame for event with payload marshalled as data.
func Encode(event string, payload any) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

// Decode parses a wire frame.
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return env, fmt.Errorf("decode frame: %w", err)
	}
	if env.Event == "" {
		return env, fmt.Errorf("decode frame: missing event")
	}
	return env, nil
}

// StringOrField extracts an identifier that clients send either as a bare
// JSON string ("m-1") or as an object field ({"monsterId": "m-1"}).
// Returns "" when neither form matches.
func StringOrField(data json.RawMessage, field string) string {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if trimmed[0] == '"' {
		if json.Unmarshal(data, &s) == nil {
			return s
		}
		return ""
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(data, &obj) != nil {
		return ""
	}
	raw, ok := obj[field]
	if !ok {
		return ""
	}
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
