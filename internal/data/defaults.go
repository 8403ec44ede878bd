package data

const defaultGradeColor = "#A0A0A0"

// Defaults returns the built-in catalog used when no source is configured or
// a source leaves a section empty.
func Defaults() *Document {
	return &Document{
		Monsters:     defaultMonsters(),
		Items:        defaultItems(),
		ServerConfig: DefaultServerConfig(),
	}
}

// Merge fills the empty sections of doc from Defaults. Sections present in doc
// replace the defaults wholesale. The input is not modified.
func Merge(doc *Document) *Document {
	def := Defaults()
	if doc == nil {
		return def
	}
	out := &Document{
		Monsters:     doc.Monsters,
		Items:        doc.Items,
		ServerConfig: doc.ServerConfig,
		Rejected:     doc.Rejected,
	}
	if len(out.Monsters) == 0 {
		out.Monsters = def.Monsters
	}
	if len(out.Items) == 0 {
		out.Items = def.Items
	}
	if out.ServerConfig == nil {
		out.ServerConfig = def.ServerConfig
	} else {
		cfg := *out.ServerConfig
		gc := def.ServerConfig.GradeConfig
		if len(cfg.GradeConfig.Chances) == 0 {
			cfg.GradeConfig.Chances = gc.Chances
		}
		if len(cfg.GradeConfig.Multipliers) == 0 {
			cfg.GradeConfig.Multipliers = gc.Multipliers
		}
		if len(cfg.GradeConfig.Colors) == 0 {
			cfg.GradeConfig.Colors = gc.Colors
		}
		if len(cfg.GradeConfig.Labels) == 0 {
			cfg.GradeConfig.Labels = gc.Labels
		}
		out.ServerConfig = &cfg
	}
	return out
}

// DefaultServerConfig returns the stock drop rates and grade tables.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		DropRates: DropRates{
			GlobalGoldChance:      0.7,
			GlobalMaterialChance:  0.3,
			GlobalEquipmentChance: 0.05,
		},
		GradeConfig: GradeConfig{
			Chances: map[Grade]float64{
				GradeCommon:    0.80,
				GradeRare:      0.15,
				GradeEpic:      0.05,
				GradeHeroic:    0,
				GradeLegendary: 0,
			},
			Multipliers: map[Grade]float64{
				GradeCommon:    1.0,
				GradeRare:      1.5,
				GradeEpic:      2.5,
				GradeHeroic:    4.0,
				GradeLegendary: 6.0,
			},
			Colors: map[Grade]string{
				GradeCommon:    "#A0A0A0",
				GradeRare:      "#4169E1",
				GradeEpic:      "#9370DB",
				GradeHeroic:    "#FFD700",
				GradeLegendary: "#FF4500",
			},
			Labels: map[Grade]string{
				GradeCommon:    "일반",
				GradeRare:      "희귀",
				GradeEpic:      "서사",
				GradeHeroic:    "영웅",
				GradeLegendary: "전설",
			},
		},
	}
}

func defaultMonsters() []MonsterTemplate {
	return []MonsterTemplate{
		{
			ID: "skeleton_weak", Name: "약한 스켈레톤", Type: "skeleton", Variant: "green",
			HP: 50, MaxHP: 50, Attack: 3, Defense: 0, Exp: 15,
			Speed: 1.0, AggroRange: 0, AttackRange: 40,
			DropTable: &DropTable{
				Gold: &GoldDrop{Min: 15, Max: 40, Chance: 0.8},
				Materials: []MaterialDrop{
					{ItemID: "bone_fragment", Chance: 0.35, Min: 1, Max: 3},
					{ItemID: "potion_hp_small", Chance: 0.08, Min: 1, Max: 1},
				},
				Equipment: &EquipmentDrop{Chance: 0.03, MaxGrade: GradeRare},
			},
		},
		{
			ID: "skeleton_worker", Name: "스켈레톤 일꾼", Type: "skeleton", Variant: "green",
			HP: 80, MaxHP: 80, Attack: 5, Defense: 1, Exp: 25,
			Speed: 1.2, AggroRange: 0, AttackRange: 40,
			DropTable: &DropTable{
				Gold: &GoldDrop{Min: 30, Max: 80, Chance: 0.85},
				Materials: []MaterialDrop{
					{ItemID: "bone_fragment", Chance: 0.4, Min: 2, Max: 4},
					{ItemID: "potion_hp_small", Chance: 0.15, Min: 1, Max: 2},
				},
				Equipment: &EquipmentDrop{Chance: 0.05, MaxGrade: GradeRare},
			},
		},
		{
			ID: "skeleton_warrior", Name: "스켈레톤 전사", Type: "skeleton", Variant: "red",
			HP: 150, MaxHP: 150, Attack: 12, Defense: 3, Exp: 50,
			Speed: 1.5, AggroRange: 200, AttackRange: 40,
			DropTable: &DropTable{
				Gold: &GoldDrop{Min: 80, Max: 200, Chance: 0.9},
				Materials: []MaterialDrop{
					{ItemID: "bone_fragment", Chance: 0.5, Min: 3, Max: 6},
					{ItemID: "potion_hp_small", Chance: 0.3, Min: 1, Max: 3},
				},
				Equipment: &EquipmentDrop{Chance: 0.08, MaxGrade: GradeEpic},
			},
		},
	}
}

func defaultItems() []ItemTemplate {
	weapon := func(id, name string, atk, req int) ItemTemplate {
		return ItemTemplate{
			ID: id, Name: name, Type: "equipment", SubType: "weapon",
			BaseStats: map[string]int{"attack": atk}, LevelReq: req,
		}
	}
	armor := func(id, name, sub string, def, hp, req int) ItemTemplate {
		return ItemTemplate{
			ID: id, Name: name, Type: "equipment", SubType: sub,
			BaseStats: map[string]int{"defense": def, "hp": hp}, LevelReq: req,
		}
	}
	return []ItemTemplate{
		weapon("sword_wooden", "목검", 10, 1),
		weapon("sword_iron", "철검", 25, 10),
		weapon("sword_steel", "강철검", 50, 20),
		weapon("sword_mithril", "미스릴검", 100, 30),

		armor("helm_leather", "가죽 투구", "head", 2, 20, 1),
		armor("helm_iron", "철 투구", "head", 8, 50, 10),
		armor("helm_steel", "강철 투구", "head", 15, 100, 20),

		armor("armor_leather", "가죽 갑옷", "armor", 5, 50, 1),
		armor("armor_chain", "사슬 갑옷", "armor", 15, 150, 10),
		armor("armor_plate", "판금 갑옷", "armor", 30, 300, 20),

		armor("boots_leather", "가죽 부츠", "leg", 1, 10, 1),
		armor("boots_iron", "철제 그리브", "leg", 5, 30, 10),
		armor("boots_steel", "강철 그리브", "leg", 10, 60, 20),

		{
			ID: "bone_fragment", Name: "뼈 조각", Type: "material",
			Stackable: true, Description: "몬스터의 뼈 조각입니다.",
		},
		{
			ID: "potion_hp_small", Name: "하급 체력 물약", Type: "consumable", SubType: "potion",
			Stackable: true, Effect: &ItemEffect{Type: "heal_hp", Amount: 50},
		},
	}
}
