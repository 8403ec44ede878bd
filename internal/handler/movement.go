package handler

import (
	"encoding/json"

	"github.com/skelrealm/server/internal/net"
	"github.com/skelrealm/server/internal/net/packet"
	"go.uber.org/zap"
)

type moveRequest struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	State     string  `json:"state"`
	Direction string  `json:"direction"`
	TargetX   float64 `json:"targetX"`
	TargetY   float64 `json:"targetY"`
}

// HandleMove applies a client move. The client is authoritative for its own
// position: no speed or bounds check is made.
func HandleMove(sess *net.Session, data json.RawMessage, deps *Deps) {
	player := deps.World.GetPlayer(sess.ID)
	if player == nil {
		return
	}
	var req moveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		deps.Log.Debug("move payload rejected", zap.String("session", sess.ID), zap.Error(err))
		return
	}

	player.X = req.X
	player.Y = req.Y
	player.State = req.State
	player.Direction = req.Direction
	player.TargetX = req.TargetX
	player.TargetY = req.TargetY

	deps.Out.BroadcastExcept(sess.ID, packet.S_PLAYER_MOVED, PlayerMoved{
		ID:        sess.ID,
		X:         req.X,
		Y:         req.Y,
		State:     req.State,
		Direction: req.Direction,
		TargetX:   req.TargetX,
		TargetY:   req.TargetY,
	})
}
