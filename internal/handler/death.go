package handler

import (
	"encoding/json"

	"github.com/skelrealm/server/internal/net"
)

// HandleRespawn brings the player back at the spawn point. There is no
// cooldown, and a living player may respawn too (it doubles as "return to
// town").
func HandleRespawn(sess *net.Session, _ json.RawMessage, deps *Deps) {
	player := deps.World.GetPlayer(sess.ID)
	if player == nil {
		return
	}
	deps.Death.Respawn(player)
}
