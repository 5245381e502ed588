package memory

import (
	"sync"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(leagueID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[leagueID]; ok {
		return session
	}
	session := app.NewSession(leagueID)
	s.sessions[leagueID] = session
	return session
}

func (s *SessionStore) Get(leagueID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[leagueID]
	return session, ok
}

func (s *SessionStore) DeleteIfEmpty(leagueID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[leagueID]
	if !ok {
		return
	}
	if session.IsEmpty() {
		delete(s.sessions, leagueID)
	}
}
