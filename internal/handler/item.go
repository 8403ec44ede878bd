package handler

import (
	"encoding/json"

	"github.com/skelrealm/server/internal/net"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
)

// HandleItemDrop places a client-described item on the ground. The ID is
// chosen by the client; re-using a live ID is a no-op. The drop time is
// always stamped by the server.
func HandleItemDrop(sess *net.Session, data json.RawMessage, deps *Deps) {
	var item world.GroundItem
	if err := json.Unmarshal(data, &item); err != nil {
		deps.Log.Debug("itemDropRequest payload rejected", zap.String("session", sess.ID), zap.Error(err))
		return
	}
	if item.ID == "" {
		return
	}
	deps.Ground.Drop(&item)
}

// HandlePickupItem processes a pickup. The client sends the ground item ID
// bare or as {"itemId": ...}.
func HandlePickupItem(sess *net.Session, data json.RawMessage, deps *Deps) {
	itemID := packet.StringOrField(data, "itemId")
	if itemID == "" {
		return
	}
	player := deps.World.GetPlayer(sess.ID)
	if player == nil {
		return
	}
	deps.Ground.Pickup(player, itemID)
}
