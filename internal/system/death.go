package system

import (
	"github.com/skelrealm/server/internal/core/event"
	"github.com/skelrealm/server/internal/handler"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
)

const defaultRespawnHP = 500

// DeathSystem handles player death and respawn.
type DeathSystem struct {
	deps *handler.Deps
}

func NewDeathSystem(deps *handler.Deps) *DeathSystem {
	return &DeathSystem{deps: deps}
}

// ==================== Player death ====================

// KillPlayer implements handler.DeathManager. A player already dead is left
// alone, so the death is announced once.
func (s *DeathSystem) KillPlayer(player *world.PlayerInfo, killer *world.MonsterInfo) {
	if player.Dead() {
		return
	}
	player.HP = 0
	player.State = world.StateDead

	s.deps.Out.Broadcast(packet.S_PLAYER_DEAD, handler.PlayerDead{PlayerID: player.ID})

	// Every monster hunting this player gives up.
	for _, m := range s.deps.World.MonsterList() {
		if m.TargetID == player.ID {
			m.TargetID = ""
			m.State = world.StateIdle
		}
	}

	ev := event.PlayerDied{PlayerID: player.ID, At: s.deps.Clock.Now()}
	if killer != nil {
		ev.MonsterID = killer.ID
	}
	if s.deps.Bus != nil {
		event.Emit(s.deps.Bus, ev)
	}

	s.deps.Log.Info("player died",
		zap.String("player", player.ID),
		zap.String("nickname", player.Nickname),
		zap.String("killer", ev.MonsterID),
	)
}

// ==================== Respawn ====================

// Respawn implements handler.DeathManager. HP returns to the stat block's
// maximum (500 without one) and the player reappears near the spawn point.
func (s *DeathSystem) Respawn(player *world.PlayerInfo) {
	hp := defaultRespawnHP
	if player.Stats != nil && player.Stats.HP > 0 {
		hp = player.Stats.HP
	}
	if player.MaxHP < hp {
		player.MaxHP = hp
	}
	player.HP = hp
	player.State = world.StateIdle

	w := s.deps.Config.World
	player.X = w.SpawnX + s.deps.Rand.Float64()*w.SpawnJitter
	player.Y = w.SpawnY + s.deps.Rand.Float64()*w.SpawnJitter

	s.deps.Out.Broadcast(packet.S_PLAYER_RESPAWN, player.Clone())

	if s.deps.Bus != nil {
		event.Emit(s.deps.Bus, event.PlayerRespawned{
			PlayerID: player.ID,
			HP:       player.HP,
			At:       s.deps.Clock.Now(),
		})
	}
}
