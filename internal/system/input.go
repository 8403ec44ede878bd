package system

import (
	"time"

	coresys "github.com/skelrealm/server/internal/core/system"
	"github.com/skelrealm/server/internal/handler"
	"github.com/skelrealm/server/internal/net"
	"github.com/skelrealm/server/internal/net/packet"
	"go.uber.org/zap"
)

// SessionSource hands accepted connections to the game loop. net.Server
// implements it.
type SessionSource interface {
	NewSessions() <-chan *net.Session
}

// InputSystem drains event queues from all sessions and dispatches them
// through the event registry. Phase 0 (Input).
type InputSystem struct {
	source     SessionSource
	registry   *packet.Registry
	store      *net.SessionStore
	maxPerTick int
	deps       *handler.Deps
	log        *zap.Logger
}

func NewInputSystem(
	source SessionSource,
	registry *packet.Registry,
	store *net.SessionStore,
	maxPerTick int,
	deps *handler.Deps,
	log *zap.Logger,
) *InputSystem {
	if maxPerTick <= 0 {
		maxPerTick = 32
	}
	return &InputSystem{
		source:     source,
		registry:   registry,
		store:      store,
		maxPerTick: maxPerTick,
		deps:       deps,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	// Accept new sessions
	for {
		select {
		case sess := <-s.source.NewSessions():
			s.store.Add(sess)
		default:
			goto doneNew
		}
	}
doneNew:

	// Drain events from each session (up to maxPerTick per session)
	for id, sess := range s.store.Raw() {
		if sess.IsClosed() {
			// Events that arrived just before the close still apply.
			s.drain(sess)
			sess.FlushOutput()
			handler.HandleDisconnect(sess, s.deps)
			s.store.Remove(id)
			continue
		}
		s.drain(sess)
	}

	// Early flush: replies produced here reach the writers before the
	// rest of the tick runs. OutputSystem flushes again in Phase 4.
	s.store.ForEach(func(sess *net.Session) {
		sess.FlushOutput()
	})
}

func (s *InputSystem) drain(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case frame := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), frame); err != nil {
				s.log.Debug("event dispatch failed",
					zap.String("session", sess.ID),
					zap.Error(err),
				)
			}
		default:
			return
		}
	}
}
