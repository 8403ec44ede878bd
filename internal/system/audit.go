package system

import (
	"github.com/skelrealm/server/internal/core/event"
	"github.com/skelrealm/server/internal/persist"
)

// AuditRecorder accepts audit trail entries. persist.AuditLog implements it.
type AuditRecorder interface {
	Record(e persist.AuditEntry)
}

// SubscribeAudit writes kills, rewards, deaths and respawns to the audit
// trail. Entries are recorded when the bus dispatches, one pass after the
// fact.
func SubscribeAudit(bus *event.Bus, rec AuditRecorder) {
	event.Subscribe(bus, func(ev event.MonsterKilled) {
		rec.Record(persist.AuditEntry{
			Time:    ev.At,
			Kind:    "monster_killed",
			Actor:   ev.KillerID,
			Subject: ev.MonsterID,
			X:       ev.X,
			Y:       ev.Y,
			Detail: map[string]any{
				"template": ev.TemplateID,
				"exp":      ev.Exp,
			},
		})
		for _, item := range ev.Loot {
			detail := map[string]any{
				"itemId": item.ItemID,
				"type":   item.Type,
				"amount": item.Amount,
			}
			if item.Grade != "" {
				detail["grade"] = string(item.Grade)
			}
			rec.Record(persist.AuditEntry{
				Time:    ev.At,
				Kind:    "loot",
				Actor:   ev.KillerID,
				Subject: item.ID,
				X:       item.X,
				Y:       item.Y,
				Detail:  detail,
			})
		}
	})
	event.Subscribe(bus, func(ev event.PlayerDied) {
		rec.Record(persist.AuditEntry{
			Time:    ev.At,
			Kind:    "player_died",
			Actor:   ev.MonsterID,
			Subject: ev.PlayerID,
		})
	})
	event.Subscribe(bus, func(ev event.PlayerRespawned) {
		rec.Record(persist.AuditEntry{
			Time:    ev.At,
			Kind:    "player_respawned",
			Subject: ev.PlayerID,
			Detail:  map[string]any{"hp": ev.HP},
		})
	})
}
