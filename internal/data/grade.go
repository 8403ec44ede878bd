package data

// Grade is an equipment rarity tier.
type Grade string

const (
	GradeCommon    Grade = "common"
	GradeRare      Grade = "rare"
	GradeEpic      Grade = "epic"
	GradeHeroic    Grade = "heroic"
	GradeLegendary Grade = "legendary"
)

var gradeRank = map[Grade]int{
	GradeCommon:    0,
	GradeRare:      1,
	GradeEpic:      2,
	GradeHeroic:    3,
	GradeLegendary: 4,
}

// Rank orders grades from common (0) to legendary (4). Unknown grades rank -1.
func (g Grade) Rank() int {
	if r, ok := gradeRank[g]; ok {
		return r
	}
	return -1
}

// Valid reports whether g is one of the five known grades.
func (g Grade) Valid() bool {
	return g.Rank() >= 0
}

// RollGrade maps a uniform roll in [0,1) onto the equipment grade
// distribution: 80% common, 15% rare, 5% epic.
func RollGrade(r float64) Grade {
	switch {
	case r < 0.80:
		return GradeCommon
	case r < 0.95:
		return GradeRare
	default:
		return GradeEpic
	}
}

// CapGrade lowers g to limit when g ranks above it. An empty or unknown
// limit leaves g unchanged.
func CapGrade(g, limit Grade) Grade {
	if !limit.Valid() {
		return g
	}
	if g.Rank() > limit.Rank() {
		return limit
	}
	return g
}
