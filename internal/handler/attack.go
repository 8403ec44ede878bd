package handler

import (
	"encoding/json"

	"github.com/skelrealm/server/internal/net"
	"github.com/skelrealm/server/internal/net/packet"
)

// HandleAttack processes a player attack on a monster. The client sends
// the monster ID bare or as {"monsterId": ...}; unknown IDs are ignored
// by the combat system.
func HandleAttack(sess *net.Session, data json.RawMessage, deps *Deps) {
	monsterID := packet.StringOrField(data, "monsterId")
	if monsterID == "" {
		return
	}
	player := deps.World.GetPlayer(sess.ID)
	if player == nil {
		return
	}
	deps.Combat.PlayerAttack(player, monsterID)
}
