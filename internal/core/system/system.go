package system

import (
	"fmt"
	"time"
)

// Phase orders systems within a tick.
type Phase int

const (
	PhaseInput      Phase = iota // drain session queues, dispatch client events
	PhasePreUpdate               // due timers, last pass's bus events
	PhaseUpdate                  // monster AI
	PhasePostUpdate              // monster snapshot broadcast
	PhaseOutput                  // flush session output buffers

	phaseCount
)

var phaseNames = [phaseCount]string{"input", "pre-update", "update", "post-update", "output"}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// System is one unit of per-tick simulation work.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
