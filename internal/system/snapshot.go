package system

import (
	"time"

	coresys "github.com/skelrealm/server/internal/core/system"
	"github.com/skelrealm/server/internal/handler"
	"github.com/skelrealm/server/internal/net/packet"
)

// SnapshotSystem broadcasts the whole monster store to every connection
// once per tick. Clients resync from it, so no diffing is done.
// Phase 3 (PostUpdate).
type SnapshotSystem struct {
	deps *handler.Deps
}

func NewSnapshotSystem(deps *handler.Deps) *SnapshotSystem {
	return &SnapshotSystem{deps: deps}
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SnapshotSystem) Update(_ time.Duration) {
	s.deps.Out.Broadcast(packet.S_MONSTER_UPDATE, s.deps.World.MonstersSnapshot())
}
