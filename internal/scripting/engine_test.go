package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestCalcBaseDamage(t *testing.T) {
	e := newTestEngine(t, "")
	cases := []struct {
		name string
		ctx  DamageContext
		want int
	}{
		{"explicit attack wins", DamageContext{Class: "mage", Attack: 20, Int: 50}, 20},
		{"sword", DamageContext{Class: "sword", Str: 7}, 35},
		{"archer", DamageContext{Class: "archer", Dex: 10}, 30},
		{"mage", DamageContext{Class: "mage", Int: 6}, 24},
		{"shield", DamageContext{Class: "shield", Str: 4}, 12},
		{"unknown class", DamageContext{Class: "bard", Str: 99}, 10},
		{"empty class is sword", DamageContext{}, 25},
		{"missing stat defaults to 5", DamageContext{Class: "archer"}, 15},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := e.CalcBaseDamage(c.ctx); got != c.want {
				t.Fatalf("got %d, want %d", got, c.want)
			}
		})
	}
}

func TestAttackRange(t *testing.T) {
	e := newTestEngine(t, "")
	for class, want := range map[string]float64{"mage": 180, "archer": 180, "sword": 60, "": 60} {
		if got := e.AttackRange(class); got != want {
			t.Errorf("AttackRange(%q) = %v, want %v", class, got, want)
		}
	}
}

func TestOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	combat := filepath.Join(dir, "combat")
	if err := os.MkdirAll(combat, 0o755); err != nil {
		t.Fatal(err)
	}
	src := "function calc_base_damage(ctx) return 77 end\n"
	if err := os.WriteFile(filepath.Join(combat, "damage.lua"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	e := newTestEngine(t, dir)
	if got := e.CalcBaseDamage(DamageContext{Class: "sword"}); got != 77 {
		t.Fatalf("override not applied: %d", got)
	}
}

func TestScriptErrorFallsBack(t *testing.T) {
	dir := t.TempDir()
	combat := filepath.Join(dir, "combat")
	if err := os.MkdirAll(combat, 0o755); err != nil {
		t.Fatal(err)
	}
	src := "function calc_base_damage(ctx) error('boom') end\n"
	if err := os.WriteFile(filepath.Join(combat, "damage.lua"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	e := newTestEngine(t, dir)
	if got := e.CalcBaseDamage(DamageContext{Class: "sword"}); got != 10 {
		t.Fatalf("fallback = %d, want 10", got)
	}
}
