package handler

import (
	"github.com/skelrealm/server/internal/net"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
)

// HandleDisconnect removes the connection's player and announces the
// departure. Called by the input system once the socket is closed. Monster
// targets pointing at the player are dropped right away.
func HandleDisconnect(sess *net.Session, deps *Deps) {
	sess.SetState(packet.StateDisconnecting)

	player := deps.World.RemovePlayer(sess.ID)
	if player == nil {
		deps.Log.Info("client disconnected", zap.String("session", sess.ID))
		return
	}
	for _, m := range deps.World.MonsterList() {
		if m.TargetID == player.ID {
			m.TargetID = ""
			m.State = world.StateIdle
		}
	}
	deps.Out.Broadcast(packet.S_PLAYER_DISCONNECTED, player.ID)

	deps.Log.Info("player left",
		zap.String("session", sess.ID),
		zap.String("nickname", player.Nickname),
		zap.Int("players", deps.World.PlayerCount()),
	)
}
