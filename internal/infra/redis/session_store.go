package redis

import (
	"context"
	"sync"
	"time"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - It still keeps a local in-memory map of sessions to reuse the existing
//     in-process broadcast logic.
//   - Redis marks which leagues have live viewers so other instances and the
//     reconcile job can see them.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(leagueID), "1", s.ttl).Err()
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
		_ = s.client.Del(context.Background(), s.key(leagueID)).Err()
	}
}

// Touch extends the liveness markers of every local session.
func (s *SessionStore) Touch(ctx context.Context) error {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	if len(ids) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Set(ctx, s.key(id), "1", s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) key(leagueID string) string {
	return "league:session:" + leagueID
}
