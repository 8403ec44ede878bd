package handler

import (
	"encoding/json"

	"github.com/skelrealm/server/internal/net"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
)

// HandleUpdateStats replaces the player's stat block. When the block
// carries a new HP or MP maximum, the current value keeps its percentage
// of the old maximum (a full bar stays full).
func HandleUpdateStats(sess *net.Session, data json.RawMessage, deps *Deps) {
	player := deps.World.GetPlayer(sess.ID)
	if player == nil {
		return
	}
	var stats world.StatBlock
	if err := json.Unmarshal(data, &stats); err != nil {
		deps.Log.Debug("updateStats payload rejected", zap.String("session", sess.ID), zap.Error(err))
		return
	}
	player.Stats = &stats

	if stats.HP > 0 {
		player.HP, player.MaxHP = rescale(player.HP, player.MaxHP, defaultPlayerHP, stats.HP)
	}
	if stats.MP > 0 {
		player.MP, player.MaxMP = rescale(player.MP, player.MaxMP, defaultPlayerMP, stats.MP)
	}
}

// rescale moves cur from oldMax (fallback when unset) to newMax.
func rescale(cur, oldMax, fallback, newMax int) (int, int) {
	if oldMax <= 0 {
		oldMax = fallback
	}
	if cur >= oldMax {
		return newMax, newMax
	}
	v := cur * newMax / oldMax
	if v > newMax {
		v = newMax
	}
	if v < 0 {
		v = 0
	}
	return v, newMax
}

type updateHpRequest struct {
	HP    *int `json:"hp"`
	Force bool `json:"force"`
}

// HandleUpdateHp raises the player's HP (potions, level up). Lower values
// are ignored unless forced, so the channel cannot be used to take damage
// outside combat. The accepted value is echoed to the sender only. A forced
// value of zero or less kills the player; the dead only come back through
// respawn.
func HandleUpdateHp(sess *net.Session, data json.RawMessage, deps *Deps) {
	player := deps.World.GetPlayer(sess.ID)
	if player == nil || player.Dead() {
		return
	}
	var req updateHpRequest
	if err := json.Unmarshal(data, &req); err != nil || req.HP == nil {
		return
	}
	hp := *req.HP
	if !req.Force && hp <= player.HP {
		return
	}

	maxHP := player.MaxHP
	if maxHP <= 0 {
		maxHP = defaultPlayerHP
	}
	if hp > maxHP {
		hp = maxHP
	}
	if hp <= 0 {
		deps.Death.KillPlayer(player, nil)
		return
	}
	player.HP = hp
	SendPlayerDamaged(deps, player, 0, true)
}
