package event

import (
	"time"

	"github.com/skelrealm/server/internal/world"
)

// MonsterKilled is emitted once per monster death, after loot is rolled.
type MonsterKilled struct {
	MonsterID  string
	TemplateID string
	KillerID   string
	X, Y       float64
	Exp        int
	Loot       []world.GroundItem // delivered to the killer, exp orb first
	At         time.Time
}

// PlayerDied is emitted when a monster reduces a player to 0 HP.
type PlayerDied struct {
	PlayerID  string
	MonsterID string
	At        time.Time
}

// PlayerRespawned is emitted after a respawn request is applied.
type PlayerRespawned struct {
	PlayerID string
	HP       int
	At       time.Time
}
