package system

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/skelrealm/server/internal/handler"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/world"
)

func TestPlayerAttackAppliesBaseDamage(t *testing.T) {
	h := newHarness(t)
	p := h.addPlayer("p1", 0, 0)
	p.Stats = &world.StatBlock{Attack: 20}
	m := h.addMonster("m1", 10, 0, 50)

	h.rng.push(0.9, 0) // sign +1, zero variance
	h.combat.PlayerAttack(p, "m1")

	if m.HP != 30 {
		t.Fatalf("monster hp = %d, want 30", m.HP)
	}
	if m.TargetID != "p1" || m.LastHitTime != epoch.UnixMilli() {
		t.Fatalf("retaliation not set: target=%q lastHit=%d", m.TargetID, m.LastHitTime)
	}
	dmg := h.out.named(packet.S_MONSTER_DAMAGED)
	if len(dmg) != 1 {
		t.Fatalf("monsterDamaged sent %d times", len(dmg))
	}
	got := dmg[0].payload.(handler.MonsterDamaged)
	if got.Damage != 20 || got.HP != 30 || got.AttackerID != "p1" || got.MonsterID != "m1" {
		t.Fatalf("monsterDamaged = %+v", got)
	}
	pose := h.out.named(packet.S_PLAYER_MOVED)
	if len(pose) != 1 || pose[0].kind != "broadcast" {
		t.Fatalf("attack pose = %+v", pose)
	}
	if mv := pose[0].payload.(handler.PlayerMoved); mv.State != world.StateAttack || mv.Direction != "right" {
		t.Fatalf("attack pose payload = %+v", mv)
	}
}

func TestRollDamageBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for base := 0; base <= 300; base++ {
		for i := 0; i < 20; i++ {
			dmg := RollDamage(base, rng)
			if dmg < 1 {
				t.Fatalf("base %d: damage %d < 1", base, dmg)
			}
			variance := int(math.Floor(float64(base) * 0.2))
			if base >= 1 && (dmg < base-variance || dmg > base+variance) {
				t.Fatalf("base %d: damage %d outside ±%d", base, dmg, variance)
			}
		}
	}
}

func TestRollDamageNegativeVariance(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0.2, 0.5}} // sign -1, r 0.5
	if got := RollDamage(20, rng); got != 18 {
		t.Fatalf("damage = %d, want 18", got)
	}
}

func TestClassDamageFallback(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		class string
		stats *world.StatBlock
		want  int
	}{
		{"sword", nil, 25},
		{"", &world.StatBlock{Str: 8}, 40},
		{"archer", &world.StatBlock{Dex: 10}, 30},
		{"mage", &world.StatBlock{Int: 10}, 40},
		{"shield", &world.StatBlock{Str: 4}, 12},
		{"bard", nil, 10},
		{"mage", &world.StatBlock{Attack: 77, Int: 10}, 77},
	}
	for _, tt := range tests {
		p := &world.PlayerInfo{Class: tt.class, Stats: tt.stats}
		if got := h.combat.baseDamage(p); got != tt.want {
			t.Errorf("class %q stats %+v: base = %d, want %d", tt.class, tt.stats, got, tt.want)
		}
	}
}

func TestPlayerAttackCooldown(t *testing.T) {
	h := newHarness(t)
	p := h.addPlayer("p1", 0, 0)
	h.addMonster("m1", 10, 0, 1000)

	h.combat.PlayerAttack(p, "m1")
	h.clock.Advance(1499 * time.Millisecond)
	h.combat.PlayerAttack(p, "m1")
	if n := len(h.out.named(packet.S_MONSTER_DAMAGED)); n != 1 {
		t.Fatalf("attack inside cooldown accepted: %d hits", n)
	}

	h.clock.Advance(time.Millisecond)
	h.combat.PlayerAttack(p, "m1")
	if n := len(h.out.named(packet.S_MONSTER_DAMAGED)); n != 2 {
		t.Fatalf("attack after cooldown rejected: %d hits", n)
	}
}

func TestPlayerAttackOutOfRangeConsumesCooldown(t *testing.T) {
	h := newHarness(t)
	p := h.addPlayer("p1", 0, 0) // range 60, tolerance 20
	far := h.addMonster("far", 80, 0, 100)
	near := h.addMonster("near", 79, 0, 100)

	h.combat.PlayerAttack(p, "far")
	if far.HP != 100 || len(h.out.msgs) != 0 {
		t.Fatal("out of range attack landed")
	}
	if p.LastAttackTime != epoch.UnixMilli() {
		t.Fatal("rejected attack did not stamp cooldown")
	}

	h.combat.PlayerAttack(p, "near")
	if near.HP != 100 {
		t.Fatal("attack during cooldown landed")
	}
	h.clock.Advance(1500 * time.Millisecond)
	h.combat.PlayerAttack(p, "near")
	if near.HP == 100 {
		t.Fatal("in-range attack missed")
	}
}

func TestDeadPlayerCannotAttack(t *testing.T) {
	h := newHarness(t)
	p := h.addPlayer("p1", 0, 0)
	p.State = world.StateDead
	m := h.addMonster("m1", 10, 0, 100)
	h.combat.PlayerAttack(p, "m1")
	if m.HP != 100 {
		t.Fatal("dead player dealt damage")
	}
}

func TestKillGrantsExpOnceAndRemovesMonster(t *testing.T) {
	h := newHarness(t)
	p := h.addPlayer("p1", 0, 0)
	p.Stats = &world.StatBlock{Attack: 20}
	h.addMonster("m1", 10, 0, 5)

	h.combat.PlayerAttack(p, "m1")

	if h.deps.World.GetMonster("m1") != nil {
		t.Fatal("monster still in store")
	}
	dmg := h.out.named(packet.S_MONSTER_DAMAGED)[0].payload.(handler.MonsterDamaged)
	if dmg.HP != 0 {
		t.Fatalf("reported hp = %d, want 0", dmg.HP)
	}
	dead := h.out.named(packet.S_MONSTER_DEAD)
	if len(dead) != 1 || dead[0].payload.(handler.MonsterDead).KillerID != "p1" {
		t.Fatalf("monsterDead = %+v", dead)
	}
	loot := h.out.named(packet.S_AUTO_LOOT)
	if len(loot) != 1 {
		t.Fatalf("autoLoot sent %d times, want 1 (no drop table)", len(loot))
	}
	if loot[0].kind != "to" || loot[0].target != "p1" {
		t.Fatalf("autoLoot not private: %+v", loot[0])
	}
	orb := loot[0].payload.(world.GroundItem)
	if orb.Type != "exp" || orb.Amount != 15 || orb.ItemID != "exp_orb" || orb.OwnerID != "p1" {
		t.Fatalf("exp orb = %+v", orb)
	}
	if h.deps.Bus.Pending() != 1 {
		t.Fatalf("bus pending = %d, want 1 MonsterKilled", h.deps.Bus.Pending())
	}

	// A second attack on the removed id is a no-op.
	h.out.reset()
	h.clock.Advance(2 * time.Second)
	h.combat.PlayerAttack(p, "m1")
	if len(h.out.msgs) != 0 {
		t.Fatalf("attack on removed monster produced %d events", len(h.out.msgs))
	}
}

func TestKillExpIsIndependentOfDrops(t *testing.T) {
	h := newHarness(t)
	p := h.addPlayer("p1", 0, 0)
	p.Stats = &world.StatBlock{Attack: 100}
	m := h.addMonster("m1", 10, 0, 5)
	m.Drops = h.deps.Catalog.Monster("skeleton_warrior").DropTable
	h.rng.def = 0 // every chance roll succeeds

	h.combat.PlayerAttack(p, "m1")

	var exp int
	for _, s := range h.out.named(packet.S_AUTO_LOOT) {
		if item := s.payload.(world.GroundItem); item.Type == "exp" {
			exp++
			if item.Amount != 15 {
				t.Fatalf("exp amount = %d", item.Amount)
			}
		}
	}
	if exp != 1 {
		t.Fatalf("exp orbs = %d, want 1", exp)
	}
}

func TestMonsterAttackKillsOnce(t *testing.T) {
	h := newHarness(t)
	p := h.addPlayer("p1", 0, 0)
	m := h.addMonster("m1", 10, 0, 50)
	m.Attack = 600

	h.combat.MonsterAttack(m, p)
	if p.HP != 0 || !p.Dead() {
		t.Fatalf("player hp=%d state=%s", p.HP, p.State)
	}
	if m.State != world.StateAttack || m.AttackEndTime != epoch.UnixMilli()+500 {
		t.Fatalf("attack lock not set: %+v", m)
	}

	// Death is announced before the damage update.
	var order []string
	for _, s := range h.out.msgs {
		order = append(order, s.event)
	}
	if len(order) != 2 || order[0] != packet.S_PLAYER_DEAD || order[1] != packet.S_PLAYER_DAMAGED {
		t.Fatalf("events = %v", order)
	}
	pd := h.out.named(packet.S_PLAYER_DAMAGED)[0].payload.(handler.PlayerDamaged)
	if pd.HP != 0 || pd.Damage != 600 {
		t.Fatalf("playerDamaged = %+v", pd)
	}

	h.clock.Advance(1001 * time.Millisecond)
	h.combat.MonsterAttack(m, p)
	if n := len(h.out.named(packet.S_PLAYER_DEAD)); n != 1 {
		t.Fatalf("playerDead sent %d times", n)
	}
	if p.HP != 0 {
		t.Fatalf("hp went negative: %d", p.HP)
	}
}

func TestMonsterAttackCooldown(t *testing.T) {
	h := newHarness(t)
	p := h.addPlayer("p1", 0, 0)
	m := h.addMonster("m1", 10, 0, 50)
	m.Attack = 10

	h.combat.MonsterAttack(m, p)
	h.clock.Advance(1000 * time.Millisecond)
	h.combat.MonsterAttack(m, p)
	if p.HP != 490 {
		t.Fatalf("hp = %d, want 490", p.HP)
	}
	if m.State != world.StateIdle {
		t.Fatalf("state after lock = %s, want idle", m.State)
	}
	h.clock.Advance(time.Millisecond)
	h.combat.MonsterAttack(m, p)
	if p.HP != 480 {
		t.Fatalf("hp = %d, want 480", p.HP)
	}
}

func TestPlayerDeathClearsAllTargets(t *testing.T) {
	h := newHarness(t)
	p := h.addPlayer("p1", 0, 0)
	other := h.addPlayer("p2", 0, 0)
	m1 := h.addMonster("m1", 10, 0, 50)
	m2 := h.addMonster("m2", 300, 0, 50)
	m3 := h.addMonster("m3", 300, 0, 50)
	m1.Attack = 1000
	m2.TargetID, m2.State = "p1", world.StateWalk
	m3.TargetID = "p2"

	h.combat.MonsterAttack(m1, p)

	if m2.TargetID != "" || m2.State != world.StateIdle {
		t.Fatalf("m2 still hunting: %+v", m2)
	}
	if m3.TargetID != other.ID {
		t.Fatal("unrelated target cleared")
	}
	if h.deps.Bus.Pending() != 1 {
		t.Fatal("PlayerDied not emitted")
	}
}

func TestRespawnRestoresPlayer(t *testing.T) {
	h := newHarness(t)
	p := h.addPlayer("p1", 700, 500)
	p.HP, p.State = 0, world.StateDead
	h.rng.push(0.5, 0.5)

	h.death.Respawn(p)

	if p.HP != 500 || p.Dead() || p.X != 425 || p.Y != 325 {
		t.Fatalf("respawned player = %+v", p)
	}
	got := h.out.named(packet.S_PLAYER_RESPAWN)
	if len(got) != 1 || got[0].kind != "broadcast" {
		t.Fatalf("playerRespawn = %+v", got)
	}

	p.Stats = &world.StatBlock{HP: 800}
	h.death.Respawn(p)
	if p.HP != 800 || p.MaxHP != 800 {
		t.Fatalf("respawn ignored stat hp: %d/%d", p.HP, p.MaxHP)
	}
}
