package handler

import (
	"encoding/json"
	"time"

	"github.com/skelrealm/server/internal/config"
	"github.com/skelrealm/server/internal/core/event"
	"github.com/skelrealm/server/internal/core/timer"
	"github.com/skelrealm/server/internal/data"
	"github.com/skelrealm/server/internal/net"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/scripting"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
)

// Broadcaster is the outbound event sink. net.Hub implements it.
type Broadcaster interface {
	Broadcast(event string, payload any)
	BroadcastExcept(exceptID, event string, payload any)
	SendTo(id, event string, payload any)
}

// Clock supplies the simulation's notion of now.
type Clock interface {
	Now() time.Time
}

// Rand is the random source used by combat, AI and loot rolls.
// *math/rand.Rand implements it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// CombatManager resolves attacks in both directions (implemented by system.CombatSystem).
type CombatManager interface {
	PlayerAttack(attacker *world.PlayerInfo, monsterID string)
	MonsterAttack(m *world.MonsterInfo, target *world.PlayerInfo)
}

// LootGenerator builds a killed monster's rewards (implemented by system.LootSystem).
// ExpOrb is granted on every kill; Roll applies the drop table.
type LootGenerator interface {
	ExpOrb(m *world.MonsterInfo, killerID string, now time.Time) world.GroundItem
	Roll(m *world.MonsterInfo, killerID string, now time.Time) []world.GroundItem
}

// ItemGroundManager owns the ground item lifecycle (implemented by system.ItemGroundSystem).
type ItemGroundManager interface {
	Drop(item *world.GroundItem)
	Pickup(player *world.PlayerInfo, itemID string)
	ClearAll()
}

// DeathManager handles player death and respawn (implemented by system.DeathSystem).
type DeathManager interface {
	KillPlayer(player *world.PlayerInfo, killer *world.MonsterInfo)
	Respawn(player *world.PlayerInfo)
}

// Deps holds shared dependencies injected into all event handlers.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	World     *world.State
	Catalog   *data.Catalog
	Scripting *scripting.Engine
	Bus       *event.Bus
	Timers    *timer.Scheduler
	Out       Broadcaster
	Clock     Clock
	Rand      Rand

	Combat CombatManager
	Loot   LootGenerator
	Ground ItemGroundManager
	Death  DeathManager
}

// NowMillis returns the clock as unix milliseconds, the unit every
// timestamp on the wire uses.
func (d *Deps) NowMillis() int64 {
	return d.Clock.Now().UnixMilli()
}

// RegisterAll registers all event handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	// One join per connection; a second would reset HP and the attack cooldown.
	reg.Register(packet.C_JOIN,
		[]packet.SessionState{packet.StateConnected},
		func(sess any, data json.RawMessage) {
			HandleJoin(sess.(*net.Session), data, deps)
		},
	)

	inWorldStates := []packet.SessionState{packet.StateInWorld}

	reg.Register(packet.C_MOVE, inWorldStates,
		func(sess any, data json.RawMessage) {
			HandleMove(sess.(*net.Session), data, deps)
		},
	)
	reg.Register(packet.C_UPDATE_STATS, inWorldStates,
		func(sess any, data json.RawMessage) {
			HandleUpdateStats(sess.(*net.Session), data, deps)
		},
	)
	reg.Register(packet.C_UPDATE_HP, inWorldStates,
		func(sess any, data json.RawMessage) {
			HandleUpdateHp(sess.(*net.Session), data, deps)
		},
	)
	reg.Register(packet.C_ATTACK, inWorldStates,
		func(sess any, data json.RawMessage) {
			HandleAttack(sess.(*net.Session), data, deps)
		},
	)
	reg.Register(packet.C_ITEM_DROP, inWorldStates,
		func(sess any, data json.RawMessage) {
			HandleItemDrop(sess.(*net.Session), data, deps)
		},
	)
	reg.Register(packet.C_ADMIN_COMMAND, inWorldStates,
		func(sess any, data json.RawMessage) {
			HandleAdminCommand(sess.(*net.Session), data, deps)
		},
	)
	reg.Register(packet.C_RESPAWN, inWorldStates,
		func(sess any, data json.RawMessage) {
			HandleRespawn(sess.(*net.Session), data, deps)
		},
	)
	reg.Register(packet.C_PICKUP_ITEM, inWorldStates,
		func(sess any, data json.RawMessage) {
			HandlePickupItem(sess.(*net.Session), data, deps)
		},
	)
}
