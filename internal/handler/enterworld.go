package handler

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/skelrealm/server/internal/net"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultNickname = "Player"
	maxNicknameLen  = 16 // runes

	defaultPlayerHP = 500
	defaultPlayerMP = 300
	playerSpeed     = 3
)

type joinRequest struct {
	Nickname    string           `json:"nickname"`
	Class       string           `json:"class"`
	X           float64          `json:"x"`
	Y           float64          `json:"y"`
	Stats       *world.StatBlock `json:"stats"`
	PlayerStats *world.StatBlock `json:"playerStats"` // older clients
}

// HandleJoin creates the connection's player, sends it the three world
// snapshots and announces it to everyone else. A connection that already
// has a player is ignored.
func HandleJoin(sess *net.Session, data json.RawMessage, deps *Deps) {
	if deps.World.GetPlayer(sess.ID) != nil {
		deps.Log.Debug("duplicate join ignored", zap.String("session", sess.ID))
		return
	}
	var req joinRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			deps.Log.Debug("join payload rejected", zap.String("session", sess.ID), zap.Error(err))
			return
		}
	}
	stats := req.Stats
	if stats == nil {
		stats = req.PlayerStats
	}

	hp, mp := defaultPlayerHP, defaultPlayerMP
	if stats != nil {
		if stats.HP > 0 {
			hp = stats.HP
		}
		if stats.MP > 0 {
			mp = stats.MP
		}
	}

	// Zero coordinates mean "not supplied".
	x, y := req.X, req.Y
	if x == 0 {
		x = deps.Config.World.SpawnX
	}
	if y == 0 {
		y = deps.Config.World.SpawnY
	}

	p := &world.PlayerInfo{
		ID:          sess.ID,
		Nickname:    normalizeNickname(req.Nickname),
		Class:       req.Class,
		X:           x,
		Y:           y,
		State:       world.StateIdle,
		Direction:   "right",
		Speed:       playerSpeed,
		HP:          hp,
		MaxHP:       hp,
		MP:          mp,
		MaxMP:       mp,
		AttackRange: attackRangeFor(deps, req.Class),
		Stats:       stats,
	}
	deps.World.AddPlayer(p)
	sess.SetState(packet.StateInWorld)

	deps.Out.SendTo(sess.ID, packet.S_CURRENT_PLAYERS, deps.World.PlayersSnapshot())
	deps.Out.SendTo(sess.ID, packet.S_CURRENT_MONSTERS, deps.World.MonstersSnapshot())
	deps.Out.SendTo(sess.ID, packet.S_CURRENT_ITEMS, deps.World.GroundItemsSnapshot())
	deps.Out.BroadcastExcept(sess.ID, packet.S_NEW_PLAYER, p.Clone())

	deps.Log.Info("player joined",
		zap.String("session", sess.ID),
		zap.String("nickname", p.Nickname),
		zap.String("class", p.Class),
		zap.Int("players", deps.World.PlayerCount()),
	)
}

// normalizeNickname trims, NFC-normalizes and truncates a client nickname.
func normalizeNickname(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return defaultNickname
	}
	if utf8.RuneCountInString(s) > maxNicknameLen {
		r := []rune(s)
		s = string(r[:maxNicknameLen])
	}
	return s
}

// attackRangeFor asks the class script for the reach, 60 without one.
func attackRangeFor(deps *Deps, class string) float64 {
	if deps.Scripting == nil {
		if class == "mage" || class == "archer" {
			return 180
		}
		return 60
	}
	return deps.Scripting.AttackRange(class)
}
