package handler

import (
	"github.com/skelrealm/server/internal/data"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/world"
)

// Outbound payloads. Field names follow the browser client's expectations.

// PlayerMoved is sent for client moves (to everyone else) and for attack
// poses (to everyone).
type PlayerMoved struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	State     string  `json:"state"`
	Direction string  `json:"direction"`
	TargetX   float64 `json:"targetX"`
	TargetY   float64 `json:"targetY"`
}

type MonsterDamaged struct {
	MonsterID  string `json:"monsterId"`
	HP         int    `json:"hp"`
	Damage     int    `json:"damage"`
	AttackerID string `json:"attackerId"`
	Type       string `json:"type"`
}

type MonsterDead struct {
	MonsterID string `json:"monsterId"`
	KillerID  string `json:"killerId"`
}

type PlayerDamaged struct {
	PlayerID string `json:"playerId"`
	Damage   int    `json:"damage"`
	HP       int    `json:"hp"`
}

type PlayerDead struct {
	PlayerID string `json:"playerId"`
}

type ItemPicked struct {
	ItemID   string `json:"itemId"`
	PlayerID string `json:"playerId"`
}

type ItemExpired struct {
	ItemID string `json:"itemId"`
}

// InventoryAdd tells the picker what entered their inventory. ItemID is
// the catalog item, not the ground object.
type InventoryAdd struct {
	ItemID           string         `json:"itemId"`
	Name             string         `json:"name"`
	Type             string         `json:"type"`
	Amount           int            `json:"amount"`
	SubType          string         `json:"subType,omitempty"`
	Stats            map[string]int `json:"stats,omitempty"`
	Grade            data.Grade     `json:"grade,omitempty"`
	LevelRequirement int            `json:"levelRequirement,omitempty"`
}

// NewInventoryAdd builds the inventory notice for a picked-up ground item.
func NewInventoryAdd(item *world.GroundItem) InventoryAdd {
	return InventoryAdd{
		ItemID:           item.ItemID,
		Name:             item.Name,
		Type:             item.Type,
		Amount:           item.Amount,
		SubType:          item.SubType,
		Stats:            item.Stats,
		Grade:            item.Grade,
		LevelRequirement: item.LevelRequirement,
	}
}

// SendPlayerDamaged sends a player's current HP after a change, either to
// everyone or only to the player.
func SendPlayerDamaged(deps *Deps, p *world.PlayerInfo, damage int, toSelfOnly bool) {
	msg := PlayerDamaged{PlayerID: p.ID, Damage: damage, HP: p.HP}
	if toSelfOnly {
		deps.Out.SendTo(p.ID, packet.S_PLAYER_DAMAGED, msg)
		return
	}
	deps.Out.Broadcast(packet.S_PLAYER_DAMAGED, msg)
}

// BroadcastAttackPose shows the attacker swinging toward x.
func BroadcastAttackPose(deps *Deps, p *world.PlayerInfo, towardX float64) {
	dir := "left"
	if p.X < towardX {
		dir = "right"
	}
	deps.Out.Broadcast(packet.S_PLAYER_MOVED, PlayerMoved{
		ID:        p.ID,
		X:         p.X,
		Y:         p.Y,
		State:     world.StateAttack,
		Direction: dir,
		TargetX:   p.X,
		TargetY:   p.Y,
	})
}
