package system

import (
	"time"

	"github.com/skelrealm/server/internal/core/event"
	coresys "github.com/skelrealm/server/internal/core/system"
	"github.com/skelrealm/server/internal/core/timer"
	"github.com/skelrealm/server/internal/handler"
)

// TimerSystem runs due one-shot tasks (respawns, item expiry). Phase 1
// (PreUpdate), so it also runs on every input poll between ticks.
type TimerSystem struct {
	sched *timer.Scheduler
	clock handler.Clock
}

func NewTimerSystem(sched *timer.Scheduler, clock handler.Clock) *TimerSystem {
	return &TimerSystem{sched: sched, clock: clock}
}

func (s *TimerSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *TimerSystem) Update(_ time.Duration) {
	s.sched.RunDue(s.clock.Now())
}

// EventDispatchSystem delivers the events emitted since its last run.
// Phase 1 (PreUpdate).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// WallClock is the production handler.Clock.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }
