package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SnapshotStore keeps the latest leaderboard of each league as JSON so other
// instances can serve it without recomputing.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) SaveLeaderboard(ctx context.Context, lb domain.Leaderboard) error {
	data, err := json.Marshal(lb)
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}
	return s.client.Set(ctx, s.key(lb.LeagueID), data, s.ttl).Err()
}

// LoadLeaderboard returns the stored snapshot; ok is false when none exists.
func (s *SnapshotStore) LoadLeaderboard(ctx context.Context, leagueID string) (domain.Leaderboard, bool, error) {
	data, err := s.client.Get(ctx, s.key(leagueID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Leaderboard{}, false, nil
	}
	if err != nil {
		return domain.Leaderboard{}, false, err
	}
	var lb domain.Leaderboard
	if err := json.Unmarshal(data, &lb); err != nil {
		return domain.Leaderboard{}, false, fmt.Errorf("unmarshal leaderboard: %w", err)
	}
	return lb, true, nil
}

func (s *SnapshotStore) DeleteLeaderboard(ctx context.Context, leagueID string) error {
	return s.client.Del(ctx, s.key(leagueID)).Err()
}

func (s *SnapshotStore) key(leagueID string) string {
	return "league:leaderboard:" + leagueID
}
