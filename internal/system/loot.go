package system

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/skelrealm/server/internal/data"
	"github.com/skelrealm/server/internal/handler"
	"github.com/skelrealm/server/internal/world"
)

const (
	defaultExpReward = 10
	lootJitter       = 20 // ± units around the death spot

	consumableColor = "#FFaaaa"
	materialColor   = "#eeeeee"
)

// LootSystem rolls post-kill rewards from a monster's drop table. Every
// item it produces belongs to the killer and is delivered only to them.
type LootSystem struct {
	catalog *data.Catalog
	rng     handler.Rand
}

func NewLootSystem(catalog *data.Catalog, rng handler.Rand) *LootSystem {
	return &LootSystem{catalog: catalog, rng: rng}
}

// ExpOrb implements handler.LootGenerator.
func (s *LootSystem) ExpOrb(m *world.MonsterInfo, killerID string, now time.Time) world.GroundItem {
	amount := m.Exp
	if amount <= 0 {
		amount = defaultExpReward
	}
	return world.GroundItem{
		ID:       world.NextGroundItemID(),
		X:        m.X,
		Y:        m.Y,
		ItemID:   "exp_orb",
		Name:     "경험치",
		Color:    "purple",
		Type:     "exp",
		Amount:   amount,
		OwnerID:  killerID,
		DropTime: now.UnixMilli(),
	}
}

// Roll implements handler.LootGenerator. Gold, each material and the
// equipment slot are rolled independently, in that order.
func (s *LootSystem) Roll(m *world.MonsterInfo, killerID string, now time.Time) []world.GroundItem {
	table := m.Drops
	if table == nil {
		return nil
	}
	var out []world.GroundItem

	if g := table.Gold; g != nil && s.rng.Float64() < g.Chance {
		out = append(out, world.GroundItem{
			ID:       world.NextGroundItemID(),
			X:        m.X,
			Y:        m.Y,
			ItemID:   "gold",
			Name:     "골드",
			Color:    "gold",
			Type:     "gold",
			Amount:   s.between(g.Min, g.Max),
			OwnerID:  killerID,
			DropTime: now.UnixMilli(),
		})
	}

	for _, mat := range table.Materials {
		if s.rng.Float64() >= mat.Chance {
			continue
		}
		def := s.catalog.Item(mat.ItemID)
		if def == nil {
			continue
		}
		color := materialColor
		if def.Type == "consumable" {
			color = consumableColor
		}
		x, y := s.jitter(m.X, m.Y)
		out = append(out, world.GroundItem{
			ID:        world.NextGroundItemID(),
			X:         x,
			Y:         y,
			ItemID:    def.ID,
			Name:      def.Name,
			Color:     color,
			Type:      def.Type,
			SubType:   def.SubType,
			Effect:    def.Effect,
			Stackable: def.Stackable,
			Amount:    s.between(mat.Min, mat.Max),
			OwnerID:   killerID,
			DropTime:  now.UnixMilli(),
		})
	}

	if eq := table.Equipment; eq != nil && s.rng.Float64() < eq.Chance {
		grade := data.CapGrade(data.RollGrade(s.rng.Float64()), eq.MaxGrade)
		if item, ok := s.GenerateEquipment(grade); ok {
			item.X, item.Y = s.jitter(m.X, m.Y)
			item.OwnerID = killerID
			item.DropTime = now.UnixMilli()
			out = append(out, item)
		}
	}
	return out
}

// GenerateEquipment builds a graded copy of a random equipment base item.
// Each base stat is scaled by the grade multiplier with ±10% variance.
// Returns false when the catalog has no equipment.
func (s *LootSystem) GenerateEquipment(grade data.Grade) (world.GroundItem, bool) {
	pool := s.catalog.EquipmentPool()
	if len(pool) == 0 {
		return world.GroundItem{}, false
	}
	if grade == "" {
		grade = data.GradeCommon
	}
	base := pool[s.rng.Intn(len(pool))]
	mult := s.catalog.GradeMultiplier(grade)

	// Sorted keys keep the rolls reproducible under a seeded source.
	keys := make([]string, 0, len(base.BaseStats))
	for k := range base.BaseStats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	stats := make(map[string]int, len(keys))
	for _, k := range keys {
		scaled := float64(base.BaseStats[k]) * mult
		variance := math.Max(1, math.Floor(scaled*0.1))
		v := int(math.Floor(scaled + s.rng.Float64()*variance*2 - variance))
		if v < 1 {
			v = 1
		}
		stats[k] = v
	}

	prefix := "낡은 "
	if grade != data.GradeCommon {
		prefix = s.catalog.GradeLabel(grade) + "의 "
	}
	levelReq := base.LevelReq
	if levelReq <= 0 {
		levelReq = 1
	}

	return world.GroundItem{
		ID:               world.NextGroundItemID(),
		ItemID:           base.ID + "_" + string(grade) + "_" + uuid.NewString(),
		Name:             prefix + base.Name,
		Color:            s.catalog.GradeColor(grade),
		Type:             "equipment",
		SubType:          base.SubType,
		Stats:            stats,
		Grade:            grade,
		LevelRequirement: levelReq,
		Amount:           1,
	}, true
}

// between returns a uniform integer in [lo, hi].
func (s *LootSystem) between(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + int(math.Floor(s.rng.Float64()*float64(hi-lo+1)))
}

func (s *LootSystem) jitter(x, y float64) (float64, float64) {
	jx := s.rng.Float64()*2*lootJitter - lootJitter
	jy := s.rng.Float64()*2*lootJitter - lootJitter
	return x + jx, y + jy
}
