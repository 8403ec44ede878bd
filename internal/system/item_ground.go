package system

// item_ground.go: ground item lifecycle (drop, pickup, clear, expiry).
// Handlers only decode the request and delegate here.

import (
	"time"

	"github.com/skelrealm/server/internal/handler"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
)

const (
	pickupRange     = 60
	ownershipWindow = 30 * time.Second // owner-only pickup
	itemLifetime    = 35 * time.Second // removed unconditionally after this
)

// ItemGroundSystem implements handler.ItemGroundManager.
type ItemGroundSystem struct {
	deps *handler.Deps
}

func NewItemGroundSystem(deps *handler.Deps) *ItemGroundSystem {
	return &ItemGroundSystem{deps: deps}
}

// Drop places an item on the ground. A live item with the same ID wins and
// the request is ignored.
func (s *ItemGroundSystem) Drop(item *world.GroundItem) {
	now := s.deps.Clock.Now()
	item.DropTime = now.UnixMilli()
	if !s.deps.World.AddGroundItem(item) {
		return
	}
	s.deps.Out.Broadcast(packet.S_ITEM_DROPPED, item.Clone())
	s.scheduleExpiry(item.ID, item.DropTime)
}

// scheduleExpiry arms a one-shot removal just past the item's lifetime.
// The task re-checks that the same drop is still on the ground: a picked or
// cleared item, or one re-dropped under the same ID, is left alone.
func (s *ItemGroundSystem) scheduleExpiry(itemID string, dropTime int64) {
	due := time.UnixMilli(dropTime).Add(itemLifetime + time.Millisecond)
	s.deps.Timers.At(due, "item-expiry", func(now time.Time) {
		item := s.deps.World.GetGroundItem(itemID)
		if item == nil || item.DropTime != dropTime {
			return
		}
		if !elapsed(now.UnixMilli(), dropTime, itemLifetime) {
			return
		}
		s.deps.World.RemoveGroundItem(itemID)
		s.deps.Out.Broadcast(packet.S_ITEM_EXPIRED, handler.ItemExpired{ItemID: itemID})
	})
}

// Pickup moves a ground item into the player's inventory. The player must
// be alive and within range, and either own the item or wait out the
// ownership window.
func (s *ItemGroundSystem) Pickup(player *world.PlayerInfo, itemID string) {
	if player.Dead() {
		return
	}
	item := s.deps.World.GetGroundItem(itemID)
	if item == nil {
		return
	}
	if distance(player.X, player.Y, item.X, item.Y) >= pickupRange {
		return
	}
	isOwner := item.OwnerID != "" && item.OwnerID == player.ID
	if !isOwner && !elapsed(s.deps.NowMillis(), item.DropTime, ownershipWindow) {
		return
	}

	s.deps.World.RemoveGroundItem(itemID)
	s.deps.Out.Broadcast(packet.S_ITEM_PICKED, handler.ItemPicked{ItemID: itemID, PlayerID: player.ID})
	s.deps.Out.SendTo(player.ID, packet.S_INVENTORY_ADD, handler.NewInventoryAdd(item))

	s.deps.Log.Debug("item picked up",
		zap.String("player", player.ID),
		zap.String("item", item.ItemID),
		zap.Int("amount", item.Amount),
	)
}

// ClearAll empties the ground. Pending expiry tasks find nothing and do nothing.
func (s *ItemGroundSystem) ClearAll() {
	n := s.deps.World.ClearGroundItems()
	s.deps.Out.Broadcast(packet.S_ITEMS_CLEARED, nil)
	s.deps.Log.Info("ground items cleared", zap.Int("count", n))
}
