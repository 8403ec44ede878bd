package system

import (
	"testing"
	"time"

	"github.com/skelrealm/server/internal/core/event"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/persist"
	"github.com/skelrealm/server/internal/world"
)

func TestRegenNeverExceedsMax(t *testing.T) {
	h := newHarness(t)
	ai := NewMonsterAISystem(h.deps)

	a := h.addMonster("a", 0, 0, 50)
	a.HP = 10
	b := h.addMonster("b", 100, 0, 10)
	b.HP = 9
	c := h.addMonster("c", 200, 0, 100)
	c.HP = 99

	ai.Update(0)
	if a.HP != 12 {
		t.Fatalf("a.HP = %d, want 12 (5%% of 50)", a.HP)
	}
	if b.HP != 10 {
		t.Fatalf("b.HP = %d, want 10 (minimum heal 1)", b.HP)
	}
	if c.HP != 100 {
		t.Fatalf("c.HP = %d, want clamp at 100", c.HP)
	}
}

func TestAggroPicksNearestLivingPlayer(t *testing.T) {
	h := newHarness(t)
	ai := NewMonsterAISystem(h.deps)

	m := h.addMonster("m1", 0, 0, 50)
	m.AggroRange = 200
	h.addPlayer("far", 150, 0)
	h.addPlayer("near", 100, 0)
	h.addPlayer("outside", 250, 0)
	corpse := h.addPlayer("corpse", 10, 0)
	corpse.HP = 0
	corpse.State = world.StateDead

	ai.Update(0)
	if m.TargetID != "near" {
		t.Fatalf("target = %q, want near", m.TargetID)
	}
	if m.State != world.StateWalk || m.X != 1 {
		t.Fatalf("monster did not chase: state=%s x=%v", m.State, m.X)
	}
}

func TestAggroTieBreaksByID(t *testing.T) {
	h := newHarness(t)
	ai := NewMonsterAISystem(h.deps)

	m := h.addMonster("m1", 0, 0, 50)
	m.AggroRange = 200
	h.addPlayer("zed", 100, 0)
	h.addPlayer("amy", -100, 0)

	ai.Update(0)
	if m.TargetID != "amy" {
		t.Fatalf("target = %q, want amy", m.TargetID)
	}
}

func TestPassiveMonsterIgnoresPlayers(t *testing.T) {
	h := newHarness(t)
	ai := NewMonsterAISystem(h.deps)

	m := h.addMonster("m1", 0, 0, 50)
	p := h.addPlayer("p1", 10, 0)

	ai.Update(0)
	if m.TargetID != "" || p.HP != 500 {
		t.Fatalf("passive monster engaged: target=%q hp=%d", m.TargetID, p.HP)
	}
}

func TestPassiveMonsterRetaliatesOnceHit(t *testing.T) {
	h := newHarness(t)
	ai := NewMonsterAISystem(h.deps)

	m := h.addMonster("m1", 0, 0, 500)
	p := h.addPlayer("p1", 30, 0)

	h.combat.PlayerAttack(p, m.ID)
	if m.TargetID != "p1" {
		t.Fatalf("target = %q after hit", m.TargetID)
	}

	h.clock.Advance(2 * time.Second)
	ai.Update(0)
	if p.HP != 497 {
		t.Fatalf("player HP = %d, want 497", p.HP)
	}
	if m.State != world.StateAttack {
		t.Fatalf("state = %s, want attack", m.State)
	}
}

func TestChaseUsesDefaultSpeed(t *testing.T) {
	h := newHarness(t)
	ai := NewMonsterAISystem(h.deps)

	m := h.addMonster("m1", 0, 0, 50)
	m.Speed = 0
	m.TargetID = "p1"
	h.addPlayer("p1", 0, 100)

	ai.Update(0)
	if m.X != 0 || m.Y != defaultChaseSpeed {
		t.Fatalf("pos = (%v,%v), want (0,%v)", m.X, m.Y, defaultChaseSpeed)
	}
}

func TestStaleTargetIsCleared(t *testing.T) {
	h := newHarness(t)
	ai := NewMonsterAISystem(h.deps)

	m := h.addMonster("m1", 0, 0, 50)
	m.TargetID = "ghost"
	m.State = world.StateWalk

	ai.Update(0)
	if m.TargetID != "" || m.State != world.StateIdle {
		t.Fatalf("target=%q state=%s", m.TargetID, m.State)
	}
}

func TestDeadTargetIsDropped(t *testing.T) {
	h := newHarness(t)
	ai := NewMonsterAISystem(h.deps)

	m := h.addMonster("m1", 0, 0, 50)
	p := h.addPlayer("p1", 10, 0)
	p.HP = 0
	p.State = world.StateDead
	m.TargetID = "p1"
	m.State = world.StateAttack

	ai.Update(0)
	if m.TargetID != "" || m.State != world.StateIdle || p.HP != 0 {
		t.Fatalf("target=%q state=%s hp=%d", m.TargetID, m.State, p.HP)
	}
}

func TestWanderWaitsForCalm(t *testing.T) {
	h := newHarness(t)
	ai := NewMonsterAISystem(h.deps)

	m := h.addMonster("m1", 100, 300, 50)
	m.LastHitTime = h.clock.now.Add(-time.Second).UnixMilli()
	h.rng.def = 0

	ai.Update(0)
	if m.Wandering || m.X != 100 {
		t.Fatalf("recently hit monster wandered: %+v", m)
	}
}

func TestWanderStepsAndSnaps(t *testing.T) {
	h := newHarness(t)
	ai := NewMonsterAISystem(h.deps)

	m := h.addMonster("m1", 100, 300, 50)
	// chance hit, destination (400, 300)
	h.rng.push(0, 0.5, 0.5)

	ai.Update(0)
	if !m.Wandering || m.State != world.StateWalk {
		t.Fatalf("not wandering: %+v", m)
	}
	if m.X != 101 || m.Y != 300 {
		t.Fatalf("pos = (%v,%v), want (101,300)", m.X, m.Y)
	}

	m.X = 399.5
	ai.Update(0)
	if m.Wandering || m.State != world.StateIdle || m.X != 400 {
		t.Fatalf("did not snap to destination: %+v", m)
	}
}

func TestSnapshotBroadcastsMonsters(t *testing.T) {
	h := newHarness(t)
	h.addMonster("m1", 1, 2, 50)
	h.addMonster("m2", 3, 4, 50)

	NewSnapshotSystem(h.deps).Update(0)

	msgs := h.out.named(packet.S_MONSTER_UPDATE)
	if len(msgs) != 1 || msgs[0].kind != "broadcast" {
		t.Fatalf("msgs = %+v", h.out.msgs)
	}
	body := roundTrip(t, msgs[0].payload)
	if len(body) != 2 {
		t.Fatalf("snapshot = %v", body)
	}
	m1, ok := body["m1"].(map[string]any)
	if !ok || m1["x"] != 1.0 || m1["hp"] != 50.0 {
		t.Fatalf("m1 = %v", body["m1"])
	}
}

type memAudit struct{ entries []persist.AuditEntry }

func (a *memAudit) Record(e persist.AuditEntry) { a.entries = append(a.entries, e) }

func TestAuditRecordsKillAndLoot(t *testing.T) {
	h := newHarness(t)
	rec := &memAudit{}
	SubscribeAudit(h.deps.Bus, rec)

	event.Emit(h.deps.Bus, event.MonsterKilled{
		MonsterID: "m1", TemplateID: "skeleton_weak", KillerID: "p1", Exp: 15,
		Loot: []world.GroundItem{
			{ID: "g1", ItemID: "exp_orb", Type: "exp", Amount: 15},
			{ID: "g2", ItemID: "sword_wooden_rare_x", Type: "equipment", Amount: 1, Grade: "rare"},
		},
		At: epoch,
	})
	event.Emit(h.deps.Bus, event.PlayerDied{PlayerID: "p1", MonsterID: "m2", At: epoch})
	h.pump()

	if len(rec.entries) != 4 {
		t.Fatalf("entries = %+v", rec.entries)
	}
	kinds := []string{"monster_killed", "loot", "loot", "player_died"}
	for i, k := range kinds {
		if rec.entries[i].Kind != k {
			t.Fatalf("entry %d kind = %s, want %s", i, rec.entries[i].Kind, k)
		}
	}
	if rec.entries[2].Detail["grade"] != "rare" {
		t.Fatalf("loot detail = %v", rec.entries[2].Detail)
	}
	if _, ok := rec.entries[1].Detail["grade"]; ok {
		t.Fatal("exp orb carries a grade")
	}
}
