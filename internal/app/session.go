package app

import (
	"sync"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
)

// Session fans leaderboard updates for one league out to live subscribers.
type Session struct {
	leagueID    string
	mu          sync.RWMutex
	latest      domain.Leaderboard
	hasLatest   bool
	subscribers map[chan domain.Leaderboard]struct{}
}

// NewSession is exported for infrastructure layers that keep their own session maps.
func NewSession(leagueID string) *Session {
	return &Session{
		leagueID:    leagueID,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// IsEmpty reports whether nobody is listening anymore.
func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers) == 0
}

// Latest returns the most recent leaderboard broadcast on this session.
func (s *Session) Latest() (domain.Leaderboard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.hasLatest
}

func (s *Session) broadcast(lb domain.Leaderboard) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest, s.hasLatest = lb, true
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// Slow subscriber: drop its stale update so it always sees the newest one.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}

// subscribe registers a listener; initial is sent first unless a newer
// leaderboard has already been broadcast.
func (s *Session) subscribe(initial domain.Leaderboard) (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	if s.hasLatest && s.latest.UpdatedAt.After(initial.UpdatedAt) {
		initial = s.latest
	}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}
