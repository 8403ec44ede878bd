package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// pollPhases are the phases a between-tick poll runs: client events in,
// due timers and bus events, replies out. Monster AI and snapshots only
// advance on full ticks.
var pollPhases = [...]Phase{PhaseInput, PhasePreUpdate, PhaseOutput}

// Runner drives registered systems. Systems of one phase run in
// registration order.
type Runner struct {
	phases [phaseCount][]System
	budget time.Duration // full ticks slower than this are logged; 0 = off
	log    *zap.Logger
}

func NewRunner(log *zap.Logger, budget time.Duration) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{budget: budget, log: log}
}

// Register adds s to its phase. An out-of-range phase is a programming
// error and panics.
func (r *Runner) Register(s System) {
	p := s.Phase()
	if p < 0 || p >= phaseCount {
		panic(fmt.Sprintf("system: %T registered with invalid %s", s, p))
	}
	r.phases[p] = append(r.phases[p], s)
}

// Tick runs every phase once.
func (r *Runner) Tick(dt time.Duration) {
	start := time.Now()
	for p := Phase(0); p < phaseCount; p++ {
		r.run(p, dt)
	}
	if r.budget <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed > r.budget {
		r.log.Warn("tick over budget",
			zap.Duration("elapsed", elapsed),
			zap.Duration("budget", r.budget),
		)
	}
}

// Poll runs the between-tick phases so client events are applied within
// one poll interval of arrival.
func (r *Runner) Poll(dt time.Duration) {
	for _, p := range pollPhases {
		r.run(p, dt)
	}
}

// TickPhase runs the systems of a single phase.
func (r *Runner) TickPhase(p Phase, dt time.Duration) {
	if p < 0 || p >= phaseCount {
		return
	}
	r.run(p, dt)
}

// Len returns the number of registered systems.
func (r *Runner) Len() int {
	n := 0
	for _, ss := range r.phases {
		n += len(ss)
	}
	return n
}

func (r *Runner) run(p Phase, dt time.Duration) {
	for _, s := range r.phases[p] {
		s.Update(dt)
	}
}
