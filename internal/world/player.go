package world

// Player movement states. Monsters share idle/walk/attack.
const (
	StateIdle   = "idle"
	StateWalk   = "walk"
	StateAttack = "attack"
	StateDead   = "dead"
)

// StatBlock is the client-computed stat sheet (base + equipment).
// Missing fields decode as 0.
type StatBlock struct {
	Level   int `json:"level"`
	HP      int `json:"hp"`
	MP      int `json:"mp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Str     int `json:"str"`
	Dex     int `json:"dex"`
	Int     int `json:"int"`
	Luk     int `json:"luk"`
}

// PlayerInfo holds in-memory data for a connected player.
// ID is the connection ID. Accessed only from the game loop goroutine.
type PlayerInfo struct {
	ID          string     `json:"id"`
	Nickname    string     `json:"nickname"`
	Class       string     `json:"class"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	State       string     `json:"state"`
	Direction   string     `json:"direction"`
	TargetX     float64    `json:"targetX"`
	TargetY     float64    `json:"targetY"`
	Speed       float64    `json:"speed"`
	Score       int        `json:"score"`
	HP          int        `json:"hp"`
	MaxHP       int        `json:"maxHp"`
	MP          int        `json:"mp"`
	MaxMP       int        `json:"maxMp"`
	AttackRange float64    `json:"attackRange"`
	Stats       *StatBlock `json:"stats"`

	LastAttackTime int64 `json:"lastAttackTime"` // unix ms
}

// Dead reports whether the player is waiting for a respawn.
func (p *PlayerInfo) Dead() bool {
	return p.State == StateDead
}

// Clone returns a deep copy safe to hand to the broadcast layer.
func (p *PlayerInfo) Clone() PlayerInfo {
	c := *p
	if p.Stats != nil {
		s := *p.Stats
		c.Stats = &s
	}
	return c
}
