package system

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/skelrealm/server/internal/config"
	"github.com/skelrealm/server/internal/core/event"
	"github.com/skelrealm/server/internal/core/timer"
	"github.com/skelrealm/server/internal/data"
	"github.com/skelrealm/server/internal/handler"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
)

var epoch = time.UnixMilli(1_700_000_000_000)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// scriptedRand returns queued values, then def (Float64) or 0 (Intn).
type scriptedRand struct {
	floats []float64
	ints   []int
	def    float64
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return r.def
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) push(vs ...float64) { r.floats = append(r.floats, vs...) }

type sent struct {
	kind    string // broadcast, except, to
	target  string
	event   string
	payload any
}

// recordingOut captures outbound events instead of encoding them.
type recordingOut struct{ msgs []sent }

func (o *recordingOut) Broadcast(ev string, payload any) {
	o.msgs = append(o.msgs, sent{kind: "broadcast", event: ev, payload: payload})
}

func (o *recordingOut) BroadcastExcept(exceptID, ev string, payload any) {
	o.msgs = append(o.msgs, sent{kind: "except", target: exceptID, event: ev, payload: payload})
}

func (o *recordingOut) SendTo(id, ev string, payload any) {
	o.msgs = append(o.msgs, sent{kind: "to", target: id, event: ev, payload: payload})
}

func (o *recordingOut) named(ev string) []sent {
	var out []sent
	for _, m := range o.msgs {
		if m.event == ev {
			out = append(out, m)
		}
	}
	return out
}

func (o *recordingOut) reset() { o.msgs = nil }

type harness struct {
	deps   *handler.Deps
	clock  *fakeClock
	rng    *scriptedRand
	out    *recordingOut
	combat *CombatSystem
	loot   *LootSystem
	ground *ItemGroundSystem
	death  *DeathSystem
	timers *TimerSystem
	events *EventDispatchSystem
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock: &fakeClock{now: epoch},
		rng:   &scriptedRand{def: 0.99},
		out:   &recordingOut{},
	}
	cat := data.NewCatalog(data.Defaults())
	h.deps = &handler.Deps{
		Config:  config.Defaults(),
		Log:     zap.NewNop(),
		World:   world.NewState(),
		Catalog: cat,
		Bus:     event.NewBus(),
		Timers:  timer.NewScheduler(),
		Out:     h.out,
		Clock:   h.clock,
		Rand:    h.rng,
	}
	h.combat = NewCombatSystem(h.deps)
	h.loot = NewLootSystem(cat, h.rng)
	h.ground = NewItemGroundSystem(h.deps)
	h.death = NewDeathSystem(h.deps)
	h.deps.Combat = h.combat
	h.deps.Loot = h.loot
	h.deps.Ground = h.ground
	h.deps.Death = h.death
	h.timers = NewTimerSystem(h.deps.Timers, h.clock)
	h.events = NewEventDispatchSystem(h.deps.Bus)
	return h
}

// pump runs the between-tick work: due timers and bus dispatch.
func (h *harness) pump() {
	h.events.Update(0)
	h.timers.Update(0)
}

func (h *harness) addPlayer(id string, x, y float64) *world.PlayerInfo {
	p := &world.PlayerInfo{
		ID: id, X: x, Y: y, State: world.StateIdle,
		HP: 500, MaxHP: 500, MP: 300, MaxMP: 300,
		AttackRange: 60,
	}
	h.deps.World.AddPlayer(p)
	return p
}

func (h *harness) addMonster(id string, x, y float64, hp int) *world.MonsterInfo {
	m := &world.MonsterInfo{
		ID: id, TemplateID: "skeleton_weak", X: x, Y: y,
		HP: hp, MaxHP: hp, Attack: 3, Exp: 15, Speed: 1,
		State: world.StateIdle, AttackRange: 40,
	}
	h.deps.World.AddMonster(m)
	return m
}

// roundTrip re-decodes a payload through JSON, the way a client sees it.
func roundTrip(t *testing.T, payload any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	return out
}
