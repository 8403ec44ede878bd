package world

import (
	"github.com/google/uuid"
	"github.com/skelrealm/server/internal/data"
)

// NextGroundItemID returns a unique object ID for a dropped item.
func NextGroundItemID() string {
	return uuid.NewString()
}

// GroundItem is an item on the ground (or an auto-looted reward in flight).
// Not persisted to DB, exists only in memory.
type GroundItem struct {
	ID               string           `json:"id"`
	X                float64          `json:"x"`
	Y                float64          `json:"y"`
	ItemID           string           `json:"itemId"` // catalog item ID
	Name             string           `json:"name"`
	Color            string           `json:"color"`
	Type             string           `json:"type"`
	SubType          string           `json:"subType,omitempty"`
	Effect           *data.ItemEffect `json:"effect,omitempty"`
	Stackable        bool             `json:"stackable,omitempty"`
	Amount           int              `json:"amount"`
	Stats            map[string]int   `json:"stats,omitempty"`
	Grade            data.Grade       `json:"grade,omitempty"`
	LevelRequirement int              `json:"levelRequirement,omitempty"`
	OwnerID          string           `json:"ownerId,omitempty"` // "" = no owner, public after the ownership window
	DropTime         int64            `json:"dropTime"`          // unix ms, stamped by the server
}

// Clone returns a deep copy.
func (g *GroundItem) Clone() GroundItem {
	c := *g
	if g.Stats != nil {
		c.Stats = make(map[string]int, len(g.Stats))
		for k, v := range g.Stats {
			c.Stats[k] = v
		}
	}
	return c
}
