package world

// State is the entity store: players, monsters and ground items keyed by ID.
// Single-goroutine access only (game loop). Every lookup may return nil;
// callers re-check existence before mutating because an earlier event in
// the same instant may have removed the entity.
type State struct {
	players  map[string]*PlayerInfo // connection ID → player
	monsters map[string]*MonsterInfo
	items    map[string]*GroundItem
}

func NewState() *State {
	return &State{
		players:  make(map[string]*PlayerInfo),
		monsters: make(map[string]*MonsterInfo),
		items:    make(map[string]*GroundItem),
	}
}

// --- Player methods ---

// AddPlayer registers a player, replacing any previous record with the same ID.
func (s *State) AddPlayer(p *PlayerInfo) {
	s.players[p.ID] = p
}

// RemovePlayer removes a player. Returns nil if absent.
func (s *State) RemovePlayer(id string) *PlayerInfo {
	p, ok := s.players[id]
	if !ok {
		return nil
	}
	delete(s.players, id)
	return p
}

// GetPlayer returns a player by connection ID.
func (s *State) GetPlayer(id string) *PlayerInfo {
	return s.players[id]
}

func (s *State) PlayerCount() int {
	return len(s.players)
}

// AllPlayers iterates all players.
func (s *State) AllPlayers(fn func(*PlayerInfo)) {
	for _, p := range s.players {
		fn(p)
	}
}

// PlayersSnapshot returns a detached copy of the player store for broadcast.
func (s *State) PlayersSnapshot() map[string]PlayerInfo {
	out := make(map[string]PlayerInfo, len(s.players))
	for id, p := range s.players {
		out[id] = p.Clone()
	}
	return out
}

// --- Monster methods ---

func (s *State) AddMonster(m *MonsterInfo) {
	s.monsters[m.ID] = m
}

// RemoveMonster removes a monster. Returns nil if it was already gone, which
// lets callers run death effects exactly once.
func (s *State) RemoveMonster(id string) *MonsterInfo {
	m, ok := s.monsters[id]
	if !ok {
		return nil
	}
	delete(s.monsters, id)
	return m
}

func (s *State) GetMonster(id string) *MonsterInfo {
	return s.monsters[id]
}

func (s *State) MonsterCount() int {
	return len(s.monsters)
}

// MonsterList returns all monsters (for tick iteration). The slice is safe to
// range over while monsters are removed from the store.
func (s *State) MonsterList() []*MonsterInfo {
	out := make([]*MonsterInfo, 0, len(s.monsters))
	for _, m := range s.monsters {
		out = append(out, m)
	}
	return out
}

// MonstersSnapshot returns a detached copy of the monster store for broadcast.
func (s *State) MonstersSnapshot() map[string]MonsterInfo {
	out := make(map[string]MonsterInfo, len(s.monsters))
	for id, m := range s.monsters {
		out[id] = m.Clone()
	}
	return out
}

// --- Ground item methods ---

// AddGroundItem registers a ground item. Returns false (and changes nothing)
// if an item with the same ID is already present.
func (s *State) AddGroundItem(item *GroundItem) bool {
	if _, ok := s.items[item.ID]; ok {
		return false
	}
	s.items[item.ID] = item
	return true
}

// RemoveGroundItem removes a ground item. Returns nil if absent.
func (s *State) RemoveGroundItem(id string) *GroundItem {
	item, ok := s.items[id]
	if !ok {
		return nil
	}
	delete(s.items, id)
	return item
}

func (s *State) GetGroundItem(id string) *GroundItem {
	return s.items[id]
}

func (s *State) GroundItemCount() int {
	return len(s.items)
}

// ClearGroundItems empties the item store and returns how many were removed.
func (s *State) ClearGroundItems() int {
	n := len(s.items)
	s.items = make(map[string]*GroundItem)
	return n
}

// GroundItemsSnapshot returns a detached copy of the item store for broadcast.
func (s *State) GroundItemsSnapshot() map[string]GroundItem {
	out := make(map[string]GroundItem, len(s.items))
	for id, item := range s.items {
		out[id] = item.Clone()
	}
	return out
}
