package net

// SessionStore tracks live sessions by ID. Game loop only.
type SessionStore struct {
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (s *SessionStore) Add(sess *Session) {
	s.sessions[sess.ID] = sess
}

func (s *SessionStore) Remove(id string) {
	delete(s.sessions, id)
}

func (s *SessionStore) Get(id string) *Session {
	return s.sessions[id]
}

// Raw exposes the map for iteration. Deleting the current key while ranging
// is allowed.
func (s *SessionStore) Raw() map[string]*Session {
	return s.sessions
}

func (s *SessionStore) ForEach(fn func(*Session)) {
	for _, sess := range s.sessions {
		fn(sess)
	}
}

func (s *SessionStore) Count() int {
	return len(s.sessions)
}
