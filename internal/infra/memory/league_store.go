package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
)

// LeagueStore is an in-memory implementation of app.LeagueStore. Records are
// copied in and out so callers never share answer maps with the store.
type LeagueStore struct {
	mu           sync.RWMutex
	leagues      map[string]domain.League
	participants map[string]map[string]domain.Participant
}

func NewLeagueStore() *LeagueStore {
	return &LeagueStore{
		leagues:      make(map[string]domain.League),
		participants: make(map[string]map[string]domain.Participant),
	}
}

func (s *LeagueStore) CreateLeague(_ context.Context, league domain.League, manager domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leagues[league.ID] = copyLeague(league)
	s.participants[league.ID] = map[string]domain.Participant{
		manager.ID: copyParticipant(manager),
	}
	return nil
}

func (s *LeagueStore) GetLeague(_ context.Context, leagueID string) (domain.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	league, ok := s.leagues[leagueID]
	if !ok {
		return domain.League{}, domain.ErrLeagueNotFound
	}
	return copyLeague(league), nil
}

func (s *LeagueStore) ListLeagueIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.leagues))
	for id := range s.leagues {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *LeagueStore) AddParticipant(_ context.Context, p domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.participants[p.LeagueID]
	if !ok {
		return domain.ErrLeagueNotFound
	}
	for _, existing := range members {
		if domain.SameDisplayName(existing.DisplayName, p.DisplayName) {
			return domain.ErrDuplicateDisplayName
		}
	}
	members[p.ID] = copyParticipant(p)
	return nil
}

func (s *LeagueStore) GetParticipant(_ context.Context, leagueID, participantID string) (domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[leagueID][participantID]
	if !ok {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return copyParticipant(p), nil
}

// ListParticipants returns participants in join order.
func (s *LeagueStore) ListParticipants(_ context.Context, leagueID string) ([]domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members, ok := s.participants[leagueID]
	if !ok {
		return nil, domain.ErrLeagueNotFound
	}
	out := make([]domain.Participant, 0, len(members))
	for _, p := range members {
		out = append(out, copyParticipant(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *LeagueStore) SaveParticipant(_ context.Context, p domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.participants[p.LeagueID]
	if !ok {
		return domain.ErrLeagueNotFound
	}
	if _, ok := members[p.ID]; !ok {
		return domain.ErrParticipantNotFound
	}
	members[p.ID] = copyParticipant(p)
	return nil
}

func (s *LeagueStore) SaveResults(_ context.Context, league domain.League, participants []domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.participants[league.ID]
	if !ok {
		return domain.ErrLeagueNotFound
	}
	s.leagues[league.ID] = copyLeague(league)
	for _, p := range participants {
		if _, ok := members[p.ID]; ok {
			members[p.ID] = copyParticipant(p)
		}
	}
	return nil
}

func (s *LeagueStore) DeleteParticipant(_ context.Context, leagueID, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.participants[leagueID]
	if !ok {
		return domain.ErrLeagueNotFound
	}
	if _, ok := members[participantID]; !ok {
		return domain.ErrParticipantNotFound
	}
	delete(members, participantID)
	return nil
}

func copyLeague(l domain.League) domain.League {
	l.Results = l.Results.Clone()
	return l
}

func copyParticipant(p domain.Participant) domain.Participant {
	p.Predictions = p.Predictions.Clone()
	return p
}
