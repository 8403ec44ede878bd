package system

import (
	"math"
	"time"

	"github.com/skelrealm/server/internal/core/event"
	"github.com/skelrealm/server/internal/handler"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/scripting"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
)

const (
	playerAttackCooldown  = 1500 // ms
	attackRangeTolerance  = 20
	monsterAttackCooldown = 1000 // ms
	monsterAttackLock     = 500  // ms
)

// CombatSystem resolves player and monster attacks. It has no per-tick work
// of its own: handlers and the AI call it directly from the game loop.
type CombatSystem struct {
	deps *handler.Deps
}

func NewCombatSystem(deps *handler.Deps) *CombatSystem {
	return &CombatSystem{deps: deps}
}

// PlayerAttack implements handler.CombatManager.
func (s *CombatSystem) PlayerAttack(player *world.PlayerInfo, monsterID string) {
	if player.Dead() {
		return
	}
	m := s.deps.World.GetMonster(monsterID)
	if m == nil {
		return
	}

	// The cooldown is consumed even when the target turns out to be out of reach.
	now := s.deps.NowMillis()
	if now-player.LastAttackTime < playerAttackCooldown {
		return
	}
	player.LastAttackTime = now

	if distance(player.X, player.Y, m.X, m.Y) >= player.AttackRange+attackRangeTolerance {
		return
	}

	handler.BroadcastAttackPose(s.deps, player, m.X)

	dmg := RollDamage(s.baseDamage(player), s.deps.Rand)
	m.HP -= dmg
	if m.HP < 0 {
		m.HP = 0
	}
	m.LastHitTime = now
	m.TargetID = player.ID

	s.deps.Out.Broadcast(packet.S_MONSTER_DAMAGED, handler.MonsterDamaged{
		MonsterID:  m.ID,
		HP:         m.HP,
		Damage:     dmg,
		AttackerID: player.ID,
		Type:       "damage",
	})

	if m.HP <= 0 {
		s.killMonster(m, player)
	}
}

// killMonster removes the monster and pays out to the killer. The store
// removal is the guard: a monster already gone yields nothing.
func (s *CombatSystem) killMonster(m *world.MonsterInfo, killer *world.PlayerInfo) {
	if s.deps.World.RemoveMonster(m.ID) == nil {
		return
	}
	now := s.deps.Clock.Now()
	s.deps.Out.Broadcast(packet.S_MONSTER_DEAD, handler.MonsterDead{MonsterID: m.ID, KillerID: killer.ID})

	rewards := make([]world.GroundItem, 0, 4)
	rewards = append(rewards, s.deps.Loot.ExpOrb(m, killer.ID, now))
	rewards = append(rewards, s.deps.Loot.Roll(m, killer.ID, now)...)
	for i := range rewards {
		s.deps.Out.SendTo(killer.ID, packet.S_AUTO_LOOT, rewards[i])
	}

	event.Emit(s.deps.Bus, event.MonsterKilled{
		MonsterID:  m.ID,
		TemplateID: m.TemplateID,
		KillerID:   killer.ID,
		X:          m.X,
		Y:          m.Y,
		Exp:        rewards[0].Amount,
		Loot:       rewards,
		At:         now,
	})

	s.deps.Log.Debug("monster killed",
		zap.String("monster", m.ID),
		zap.String("template", m.TemplateID),
		zap.String("killer", killer.ID),
		zap.Int("rewards", len(rewards)),
	)
}

// MonsterAttack implements handler.CombatManager. The caller has already
// checked range.
func (s *CombatSystem) MonsterAttack(m *world.MonsterInfo, target *world.PlayerInfo) {
	now := s.deps.NowMillis()
	if now-m.LastAttackTime <= monsterAttackCooldown {
		if now > m.AttackEndTime {
			m.State = world.StateIdle
		}
		return
	}
	m.LastAttackTime = now
	m.State = world.StateAttack
	m.AttackEndTime = now + monsterAttackLock

	target.HP -= m.Attack
	if target.HP < 0 {
		target.HP = 0
	}
	if target.HP == 0 && !target.Dead() {
		s.deps.Death.KillPlayer(target, m)
	}
	handler.SendPlayerDamaged(s.deps, target, m.Attack, false)
}

// baseDamage is the attacker's damage before variance: the client's attack
// stat when present, otherwise the class formula.
func (s *CombatSystem) baseDamage(p *world.PlayerInfo) int {
	ctx := scripting.DamageContext{Class: p.Class}
	if p.Stats != nil {
		ctx.Attack = p.Stats.Attack
		ctx.Str = p.Stats.Str
		ctx.Dex = p.Stats.Dex
		ctx.Int = p.Stats.Int
	}
	if s.deps.Scripting != nil {
		return s.deps.Scripting.CalcBaseDamage(ctx)
	}
	return classDamage(ctx)
}

// classDamage mirrors combat/damage.lua for deployments without a script engine.
func classDamage(ctx scripting.DamageContext) int {
	if ctx.Attack != 0 {
		return ctx.Attack
	}
	stat := func(v int) int {
		if v == 0 {
			return 5
		}
		return v
	}
	switch ctx.Class {
	case "sword", "":
		return stat(ctx.Str) * 5
	case "archer":
		return stat(ctx.Dex) * 3
	case "mage":
		return stat(ctx.Int) * 4
	case "shield":
		return stat(ctx.Str) * 3
	default:
		return 10
	}
}

// RollDamage applies up to ±20% variance to base. The result is at least 1.
func RollDamage(base int, rng handler.Rand) int {
	variance := math.Floor(float64(base) * 0.2)
	sign := 1.0
	if rng.Float64() < 0.5 {
		sign = -1
	}
	dmg := int(math.Floor(float64(base) + variance*sign*rng.Float64()))
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// elapsed reports whether more than d has passed between two unix-ms stamps.
func elapsed(now, since int64, d time.Duration) bool {
	return now-since > d.Milliseconds()
}
