package system

import (
	"testing"
	"time"

	"github.com/skelrealm/server/internal/core/event"
)

func TestSpawnInitialGroups(t *testing.T) {
	h := newHarness(t)
	rs := NewRespawnSystem(h.deps)

	n := rs.SpawnInitial()
	if n != 15 || h.deps.World.MonsterCount() != 15 {
		t.Fatalf("spawned %d, store has %d", n, h.deps.World.MonsterCount())
	}
	if rs.Cap() != 15 {
		t.Fatalf("cap = %d", rs.Cap())
	}

	leaders := 0
	w := h.deps.Config.World
	for _, m := range h.deps.World.MonsterList() {
		if m.TemplateID == leaderTemplate {
			leaders++
		}
		if m.X < groupMargin-groupSpread || m.X > w.Width-groupMargin+groupSpread {
			t.Fatalf("monster outside the map: %+v", m)
		}
		if m.HP != m.MaxHP || m.State != "idle" {
			t.Fatalf("monster not fresh: %+v", m)
		}
	}
	if leaders != 5 {
		t.Fatalf("leaders = %d, want one per group", leaders)
	}
}

func TestRespawnAfterDelay(t *testing.T) {
	h := newHarness(t)
	rs := NewRespawnSystem(h.deps)
	rs.SpawnInitial()

	victim := h.deps.World.MonsterList()[0]
	h.deps.World.RemoveMonster(victim.ID)
	event.Emit(h.deps.Bus, event.MonsterKilled{MonsterID: victim.ID, At: h.clock.now})
	h.pump()

	h.clock.Advance(2999 * time.Millisecond)
	h.pump()
	if h.deps.World.MonsterCount() != 14 {
		t.Fatalf("respawned early: %d", h.deps.World.MonsterCount())
	}

	h.clock.Advance(time.Millisecond)
	h.pump()
	if h.deps.World.MonsterCount() != 15 {
		t.Fatalf("population = %d, want 15", h.deps.World.MonsterCount())
	}
}

func TestRespawnSkippedAtCap(t *testing.T) {
	h := newHarness(t)
	rs := NewRespawnSystem(h.deps)
	rs.SpawnInitial()

	event.Emit(h.deps.Bus, event.MonsterKilled{MonsterID: "gone", At: h.clock.now})
	h.pump()
	h.clock.Advance(respawnDelay)
	h.pump()

	if h.deps.World.MonsterCount() != 15 {
		t.Fatalf("population = %d, cap must hold", h.deps.World.MonsterCount())
	}
	if h.deps.Timers.Len() != 0 {
		t.Fatalf("timers left: %d", h.deps.Timers.Len())
	}
}

func TestKillTriggersRespawn(t *testing.T) {
	h := newHarness(t)
	NewRespawnSystem(h.deps)

	p := h.addPlayer("p1", 0, 0)
	h.addMonster("m1", 10, 0, 1)
	h.combat.PlayerAttack(p, "m1")
	if h.deps.World.MonsterCount() != 0 {
		t.Fatal("monster survived")
	}

	h.pump()
	h.clock.Advance(respawnDelay)
	h.pump()
	if h.deps.World.MonsterCount() != 1 {
		t.Fatalf("population = %d, want 1", h.deps.World.MonsterCount())
	}
}
