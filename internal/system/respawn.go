package system

import (
	"time"

	"github.com/skelrealm/server/internal/core/event"
	"github.com/skelrealm/server/internal/data"
	"github.com/skelrealm/server/internal/handler"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
)

const (
	respawnDelay = 3 * time.Second

	groupMargin = 50 // group centres keep this far from the map edge
	groupSpread = 30 // ± around the centre

	leaderTemplate   = "skeleton_warrior"
	followerTemplate = "skeleton_weak"
)

// RespawnSystem keeps the monster population topped up. Each kill arms a
// one-shot respawn that re-checks the population cap when it fires.
type RespawnSystem struct {
	deps *handler.Deps
}

// NewRespawnSystem subscribes the respawn policy to monster kills.
func NewRespawnSystem(deps *handler.Deps) *RespawnSystem {
	s := &RespawnSystem{deps: deps}
	event.Subscribe(deps.Bus, func(ev event.MonsterKilled) {
		deps.Timers.At(ev.At.Add(respawnDelay), "monster-respawn", s.respawnOne)
	})
	return s
}

// Cap is the largest live population respawns will create.
func (s *RespawnSystem) Cap() int {
	return s.deps.Config.World.MonsterCap()
}

// SpawnInitial places the configured number of groups: a leader and two
// followers around a random centre. Missing templates are skipped.
// Returns the number of monsters spawned.
func (s *RespawnSystem) SpawnInitial() int {
	cat := s.deps.Catalog
	leader := cat.Monster(leaderTemplate)
	if leader == nil {
		leader = cat.Monster(followerTemplate)
	}
	follower := cat.Monster(followerTemplate)
	group := []*data.MonsterTemplate{leader, follower, follower}

	w := s.deps.Config.World
	n := 0
	for i := 0; i < w.InitialGroups; i++ {
		cx := s.deps.Rand.Float64()*(w.Width-2*groupMargin) + groupMargin
		cy := s.deps.Rand.Float64()*(w.Height-2*groupMargin) + groupMargin
		for _, t := range group {
			if t == nil {
				continue
			}
			x := cx + s.deps.Rand.Float64()*2*groupSpread - groupSpread
			y := cy + s.deps.Rand.Float64()*2*groupSpread - groupSpread
			s.deps.World.AddMonster(world.NewMonster(t, x, y))
			n++
		}
	}
	return n
}

// respawnOne adds one random archetype at a random spot, unless the
// population reached the cap since the kill.
func (s *RespawnSystem) respawnOne(_ time.Time) {
	if s.deps.World.MonsterCount() >= s.Cap() {
		s.deps.Log.Debug("respawn skipped, population at cap", zap.Int("cap", s.Cap()))
		return
	}
	ids := s.deps.Catalog.MonsterIDs()
	if len(ids) == 0 {
		return
	}
	t := s.deps.Catalog.Monster(ids[s.deps.Rand.Intn(len(ids))])
	w := s.deps.Config.World
	m := world.NewMonster(t, s.deps.Rand.Float64()*w.Width, s.deps.Rand.Float64()*w.Height)
	s.deps.World.AddMonster(m)

	s.deps.Log.Debug("monster respawned",
		zap.String("monster", m.ID),
		zap.String("template", m.TemplateID),
		zap.Int("population", s.deps.World.MonsterCount()),
	)
}
