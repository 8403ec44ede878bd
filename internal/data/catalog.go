package data

import (
	"sort"
)

// MonsterTemplate is one monster archetype.
type MonsterTemplate struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Variant     string     `json:"variant"`
	HP          int        `json:"hp"`
	MaxHP       int        `json:"maxHp"`
	Attack      int        `json:"attack"`
	Defense     int        `json:"defense"`
	Exp         int        `json:"exp"`
	Speed       float64    `json:"speed"`
	AggroRange  float64    `json:"aggroRange"` // 0 = passive
	AttackRange float64    `json:"attackRange"`
	DropTable   *DropTable `json:"dropTable,omitempty"`
}

// DropTable describes the probabilistic rewards rolled on a monster's death.
type DropTable struct {
	Gold      *GoldDrop      `json:"gold,omitempty"`
	Materials []MaterialDrop `json:"materials,omitempty"`
	Equipment *EquipmentDrop `json:"equipment,omitempty"`
}

type GoldDrop struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Chance float64 `json:"chance"`
}

type MaterialDrop struct {
	ItemID string  `json:"itemId"`
	Chance float64 `json:"chance"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

type EquipmentDrop struct {
	Chance   float64 `json:"chance"`
	MaxGrade Grade   `json:"maxGrade,omitempty"`
}

// ItemTemplate is a base item definition. Equipment items are scaled by
// grade when generated as loot.
type ItemTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"` // equipment, material, consumable
	SubType     string         `json:"subType,omitempty"`
	BaseStats   map[string]int `json:"baseStats,omitempty"`
	LevelReq    int            `json:"levelReq,omitempty"`
	Stackable   bool           `json:"stackable,omitempty"`
	Effect      *ItemEffect    `json:"effect,omitempty"`
	Description string         `json:"description,omitempty"`
}

type ItemEffect struct {
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}

// ServerConfig is the global tuning document.
type ServerConfig struct {
	DropRates   DropRates   `json:"dropRates"`
	GradeConfig GradeConfig `json:"gradeConfig"`
}

// DropRates are global fallback chances. Per-monster drop tables take
// precedence; these are carried for clients and tooling.
type DropRates struct {
	GlobalGoldChance      float64 `json:"globalGoldChance"`
	GlobalMaterialChance  float64 `json:"globalMaterialChance"`
	GlobalEquipmentChance float64 `json:"globalEquipmentChance"`
}

type GradeConfig struct {
	Chances     map[Grade]float64 `json:"chances,omitempty"`
	Multipliers map[Grade]float64 `json:"multipliers,omitempty"`
	Colors      map[Grade]string  `json:"colors,omitempty"`
	Labels      map[Grade]string  `json:"labels,omitempty"`
}

// Document is the raw catalog as produced by a Source. Nil or empty sections
// mean "not provided" and are filled from the built-in defaults by Merge.
type Document struct {
	Monsters     []MonsterTemplate `json:"monsters,omitempty"`
	Items        []ItemTemplate    `json:"items,omitempty"`
	ServerConfig *ServerConfig     `json:"serverConfig,omitempty"`

	// Rejected lists entries dropped by validation, for logging.
	Rejected []string `json:"-"`
}

// Catalog is the immutable, process-wide static data. Built once at startup.
type Catalog struct {
	monsters   map[string]*MonsterTemplate
	monsterIDs []string // sorted, for reproducible random picks
	items      map[string]*ItemTemplate
	equipment  []*ItemTemplate
	config     ServerConfig
}

// NewCatalog indexes a document. Duplicate IDs keep the last entry.
func NewCatalog(doc *Document) *Catalog {
	c := &Catalog{
		monsters: make(map[string]*MonsterTemplate),
		items:    make(map[string]*ItemTemplate),
	}
	if doc == nil {
		return c
	}
	for i := range doc.Monsters {
		m := doc.Monsters[i]
		if m.ID == "" {
			continue
		}
		c.monsters[m.ID] = &m
	}
	for id := range c.monsters {
		c.monsterIDs = append(c.monsterIDs, id)
	}
	sort.Strings(c.monsterIDs)

	itemOrder := make([]string, 0, len(doc.Items))
	for i := range doc.Items {
		it := doc.Items[i]
		if it.ID == "" {
			continue
		}
		if _, seen := c.items[it.ID]; !seen {
			itemOrder = append(itemOrder, it.ID)
		}
		c.items[it.ID] = &it
	}
	for _, id := range itemOrder {
		if it := c.items[id]; it.Type == "equipment" {
			c.equipment = append(c.equipment, it)
		}
	}
	if doc.ServerConfig != nil {
		c.config = *doc.ServerConfig
	}
	return c
}

// Monster returns the archetype with the given ID, or nil.
func (c *Catalog) Monster(id string) *MonsterTemplate {
	return c.monsters[id]
}

// MonsterIDs returns all archetype IDs in sorted order.
func (c *Catalog) MonsterIDs() []string {
	return c.monsterIDs
}

func (c *Catalog) MonsterCount() int {
	return len(c.monsters)
}

// Item returns the base item with the given ID, or nil.
func (c *Catalog) Item(id string) *ItemTemplate {
	return c.items[id]
}

func (c *Catalog) ItemCount() int {
	return len(c.items)
}

// EquipmentPool returns base items of type "equipment" in catalog order.
func (c *Catalog) EquipmentPool() []*ItemTemplate {
	return c.equipment
}

func (c *Catalog) Config() ServerConfig {
	return c.config
}

// GradeMultiplier returns the stat multiplier for a grade (1 if unset).
func (c *Catalog) GradeMultiplier(g Grade) float64 {
	if v, ok := c.config.GradeConfig.Multipliers[g]; ok && v > 0 {
		return v
	}
	return 1
}

// GradeColor returns the display colour for a grade.
func (c *Catalog) GradeColor(g Grade) string {
	if v, ok := c.config.GradeConfig.Colors[g]; ok && v != "" {
		return v
	}
	return defaultGradeColor
}

// GradeLabel returns the display name for a grade ("" if unknown).
func (c *Catalog) GradeLabel(g Grade) string {
	return c.config.GradeConfig.Labels[g]
}
