package system

import (
	"math"
	"time"

	coresys "github.com/skelrealm/server/internal/core/system"
	"github.com/skelrealm/server/internal/handler"
	"github.com/skelrealm/server/internal/world"
)

const (
	defaultChaseSpeed = 2.0
	wanderSpeed       = 1.0
	wanderChance      = 0.01 // per tick
	wanderCalm        = 3 * time.Second
	regenPercent      = 5 // of max HP per tick
)

// MonsterAISystem advances every monster once per tick: target upkeep,
// chase, attack, regen and wander. Phase 2 (Update).
type MonsterAISystem struct {
	deps *handler.Deps
}

func NewMonsterAISystem(deps *handler.Deps) *MonsterAISystem {
	return &MonsterAISystem{deps: deps}
}

func (s *MonsterAISystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MonsterAISystem) Update(_ time.Duration) {
	for _, m := range s.deps.World.MonsterList() {
		// The list is a copy; skip monsters removed meanwhile.
		if s.deps.World.GetMonster(m.ID) == nil {
			continue
		}
		s.tickMonster(m)
	}
}

func (s *MonsterAISystem) tickMonster(m *world.MonsterInfo) {
	target := s.resolveTarget(m)
	if target == nil {
		s.tickIdle(m)
		return
	}
	if target.Dead() {
		m.TargetID = ""
		m.State = world.StateIdle
		return
	}
	m.TargetID = target.ID
	m.Wandering = false

	dx, dy := target.X-m.X, target.Y-m.Y
	dist := math.Hypot(dx, dy)
	if dist > m.AttackRange {
		speed := m.Speed
		if speed <= 0 {
			speed = defaultChaseSpeed
		}
		m.X += dx / dist * speed
		m.Y += dy / dist * speed
		m.State = world.StateWalk
		return
	}
	s.deps.Combat.MonsterAttack(m, target)
}

// resolveTarget re-reads the target reference from the player store. A
// reference to a player who left is dropped. Without a target, aggressive
// monsters take the nearest living player inside their aggro radius.
func (s *MonsterAISystem) resolveTarget(m *world.MonsterInfo) *world.PlayerInfo {
	if m.TargetID != "" {
		if p := s.deps.World.GetPlayer(m.TargetID); p != nil {
			return p
		}
		m.TargetID = ""
		m.State = world.StateIdle
	}
	if !m.Aggressive() {
		return nil
	}
	var nearest *world.PlayerInfo
	best := m.AggroRange
	s.deps.World.AllPlayers(func(p *world.PlayerInfo) {
		if p.Dead() {
			return
		}
		d := math.Hypot(p.X-m.X, p.Y-m.Y)
		if d < best || (d == best && nearest != nil && p.ID < nearest.ID) {
			best = d
			nearest = p
		}
	})
	return nearest
}

// tickIdle regenerates health and occasionally wanders once the monster
// has been left alone for a while.
func (s *MonsterAISystem) tickIdle(m *world.MonsterInfo) {
	if m.HP < m.MaxHP {
		heal := m.MaxHP * regenPercent / 100
		if heal < 1 {
			heal = 1
		}
		m.HP += heal
		if m.HP > m.MaxHP {
			m.HP = m.MaxHP
		}
	}

	if !elapsed(s.deps.NowMillis(), m.LastHitTime, wanderCalm) {
		return
	}
	if s.deps.Rand.Float64() < wanderChance {
		w := s.deps.Config.World
		m.WanderX = s.deps.Rand.Float64() * w.Width
		m.WanderY = s.deps.Rand.Float64() * w.Height
		m.Wandering = true
		m.State = world.StateWalk
	}
	if !m.Wandering {
		return
	}

	dx, dy := m.WanderX-m.X, m.WanderY-m.Y
	dist := math.Hypot(dx, dy)
	if dist > wanderSpeed {
		m.X += dx / dist * wanderSpeed
		m.Y += dy / dist * wanderSpeed
		return
	}
	m.X, m.Y = m.WanderX, m.WanderY
	m.Wandering = false
	m.State = world.StateIdle
}
