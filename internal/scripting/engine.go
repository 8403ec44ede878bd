package scripting

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed scripts
var builtinScripts embed.FS

// scriptDirs are loaded in order; later files may redefine earlier globals.
var scriptDirs = []string{"core", "character", "combat"}

const (
	fallbackDamage = 10
	fallbackRange  = 60
)

// Engine wraps a single gopher-lua VM for game formulas.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine with the built-in scripts, then loads any
// .lua files under scriptsDir (may be empty) so operators can override them.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range scriptDirs {
		if err := e.loadEmbedded(path.Join("scripts", sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load builtin %s scripts: %w", sub, err)
		}
	}
	if scriptsDir != "" {
		for _, sub := range scriptDirs {
			if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
				vm.Close()
				return nil, fmt.Errorf("load %s scripts: %w", sub, err)
			}
		}
	}
	return e, nil
}

func (e *Engine) loadEmbedded(dir string) error {
	entries, err := fs.ReadDir(builtinScripts, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".lua" {
			continue
		}
		p := path.Join(dir, entry.Name())
		src, err := builtinScripts.ReadFile(p)
		if err != nil {
			return err
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// loadDir loads all .lua files in a directory in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		p := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", p))
	}
	return nil
}

// DamageContext is the attacker data a base-damage calculation needs.
// Zero stat values are treated as absent by the script.
type DamageContext struct {
	Class  string
	Attack int
	Str    int
	Dex    int
	Int    int
}

// CalcBaseDamage calls Lua calc_base_damage(ctx). Returns 10 if the script
// is missing or fails.
func (e *Engine) CalcBaseDamage(ctx DamageContext) int {
	fn := e.vm.GetGlobal("calc_base_damage")
	if fn == lua.LNil {
		e.log.Error("lua function calc_base_damage not found")
		return fallbackDamage
	}

	t := e.vm.NewTable()
	t.RawSetString("class", lua.LString(ctx.Class))
	t.RawSetString("attack", lua.LNumber(ctx.Attack))
	t.RawSetString("str", lua.LNumber(ctx.Str))
	t.RawSetString("dex", lua.LNumber(ctx.Dex))
	t.RawSetString("int", lua.LNumber(ctx.Int))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_base_damage error", zap.Error(err))
		return fallbackDamage
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua calc_base_damage returned non-number", zap.String("type", result.Type().String()))
		return fallbackDamage
	}
	return int(n)
}

// AttackRange calls Lua class_attack_range(class). Returns 60 on failure
// or a non-positive result.
func (e *Engine) AttackRange(class string) float64 {
	fn := e.vm.GetGlobal("class_attack_range")
	if fn == lua.LNil {
		e.log.Error("lua function class_attack_range not found")
		return fallbackRange
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(class)); err != nil {
		e.log.Error("lua class_attack_range error", zap.Error(err))
		return fallbackRange
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if r := float64(lua.LVAsNumber(result)); r > 0 {
		return r
	}
	return fallbackRange
}

func (e *Engine) Close() {
	e.vm.Close()
}
