package world

import (
	"github.com/google/uuid"
	"github.com/skelrealm/server/internal/data"
)

// NextMonsterID returns a unique object ID for a monster instance.
func NextMonsterID() string {
	return uuid.NewString()
}

// MonsterInfo holds runtime data for a monster currently in-world.
// Accessed only from the game loop goroutine, no locks.
type MonsterInfo struct {
	ID         string  `json:"id"`
	TemplateID string  `json:"templateId"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	HP         int     `json:"hp"`
	MaxHP      int     `json:"maxHp"`
	Attack     int     `json:"attack"`
	Defense    int     `json:"defense"`
	Exp        int     `json:"exp"`
	Speed      float64 `json:"speed"`

	// Display metadata
	Name    string `json:"name"`
	Type    string `json:"type"`
	Variant string `json:"variant"` // "red" aggressive, "green" passive

	State string `json:"state"`

	// AI state. TargetID is a weak reference into the player store and is
	// re-resolved every tick; "" means no target.
	TargetID       string  `json:"targetId,omitempty"`
	LastHitTime    int64   `json:"lastHitTime"`    // unix ms
	LastAttackTime int64   `json:"lastAttackTime"` // unix ms
	AttackEndTime  int64   `json:"attackEndTime"`  // unix ms
	AggroRange     float64 `json:"aggroRange"`     // 0 = passive
	AttackRange    float64 `json:"attackRange"`

	// Idle wandering destination
	Wandering bool    `json:"-"`
	WanderX   float64 `json:"targetX,omitempty"`
	WanderY   float64 `json:"targetY,omitempty"`

	Drops *data.DropTable `json:"-"`
}

// Aggressive reports whether the monster acquires targets on its own.
func (m *MonsterInfo) Aggressive() bool {
	return m.AggroRange > 0
}

// Clone returns a copy for snapshots. Drops points at read-only catalog data.
func (m *MonsterInfo) Clone() MonsterInfo {
	return *m
}

// NewMonster instantiates a template at (x, y) with full health.
func NewMonster(t *data.MonsterTemplate, x, y float64) *MonsterInfo {
	maxHP := t.MaxHP
	if maxHP <= 0 {
		maxHP = t.HP
	}
	hp := t.HP
	if hp <= 0 || hp > maxHP {
		hp = maxHP
	}
	return &MonsterInfo{
		ID:          NextMonsterID(),
		TemplateID:  t.ID,
		X:           x,
		Y:           y,
		HP:          hp,
		MaxHP:       maxHP,
		Attack:      t.Attack,
		Defense:     t.Defense,
		Exp:         t.Exp,
		Speed:       t.Speed,
		Name:        t.Name,
		Type:        t.Type,
		Variant:     t.Variant,
		State:       StateIdle,
		AggroRange:  t.AggroRange,
		AttackRange: t.AttackRange,
		Drops:       t.DropTable,
	}
}
