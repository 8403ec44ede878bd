package packet

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// SessionState represents the session's current protocol phase.
type SessionState int

const (
	StateConnected     SessionState = iota // socket open, not yet joined
	StateInWorld                           // joined, player record exists
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateInWorld:
		return "InWorld"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// HandlerFunc is the callback signature for event handlers.
// The session pointer is passed as an opaque interface to avoid import cycles.
type HandlerFunc func(sess any, data json.RawMessage)

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[SessionState]bool
}

// Registry maps event names to handlers with state-based access control.
type Registry struct {
	handlers map[string]*handlerEntry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]*handlerEntry),
		log:      log,
	}
}

// Register maps an event to a handler, restricted to the given session states.
func (reg *Registry) Register(event string, states []SessionState, fn HandlerFunc) {
	allowed := make(map[SessionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[event] = &handlerEntry{
		fn:            fn,
		allowedStates: allowed,
	}
}

// Dispatch decodes a frame, validates the session state and calls the
// handler. Unknown events are ignored. Returns an error for malformed frames,
// disallowed states and recovered handler panics.
func (reg *Registry) Dispatch(sess any, state SessionState, frame []byte) error {
	env, err := Decode(frame)
	if err != nil {
		return err
	}
	reg.log.Debug("event received",
		zap.String("event", env.Event),
		zap.Int("size", len(frame)),
		zap.String("state", state.String()),
	)

	entry, ok := reg.handlers[env.Event]
	if !ok {
		reg.log.Debug("unknown event", zap.String("event", env.Event), zap.String("state", state.String()))
		return nil
	}
	if !entry.allowedStates[state] {
		return fmt.Errorf("event %s not allowed in state %s", env.Event, state)
	}
	return reg.safeCall(entry.fn, sess, env)
}

// safeCall executes a handler with panic recovery so a single bad payload
// cannot crash the game loop.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, env Envelope) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.String("event", env.Event),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for event %s: %v", env.Event, rec)
		}
	}()
	fn(sess, env.Data)
	return nil
}
