package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
)

func TestLeagueStoreParticipants(t *testing.T) {
	ctx := context.Background()
	store := NewLeagueStore()
	joined := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	league := domain.League{ID: "l1", QuestionSetID: "superbowl"}
	manager := domain.Participant{ID: "m", LeagueID: "l1", DisplayName: "Boss", IsManager: true, JoinedAt: joined}
	if err := store.CreateLeague(ctx, league, manager); err != nil {
		t.Fatalf("create: %v", err)
	}

	p := domain.Participant{ID: "p", LeagueID: "l1", DisplayName: "Hawks", JoinedAt: joined.Add(time.Minute)}
	if err := store.AddParticipant(ctx, p); err != nil {
		t.Fatalf("add: %v", err)
	}
	dup := domain.Participant{ID: "q", LeagueID: "l1", DisplayName: "HAWKS"}
	if err := store.AddParticipant(ctx, dup); !errors.Is(err, domain.ErrDuplicateDisplayName) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}

	list, err := store.ListParticipants(ctx, "l1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "m" || list[1].ID != "p" {
		t.Fatalf("unexpected participants %+v", list)
	}

	if err := store.DeleteParticipant(ctx, "l1", "p"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetParticipant(ctx, "l1", "p"); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected participant gone, got %v", err)
	}
}

func TestLeagueStoreCopiesAnswers(t *testing.T) {
	ctx := context.Background()
	store := NewLeagueStore()
	manager := domain.Participant{ID: "m", LeagueID: "l1", DisplayName: "Boss", Predictions: domain.Answers{"winner": domain.Text("seahawks")}}
	_ = store.CreateLeague(ctx, domain.League{ID: "l1"}, manager)

	manager.Predictions["winner"] = domain.Text("patriots")
	got, _ := store.GetParticipant(ctx, "l1", "m")
	if got.Predictions["winner"].String() != "seahawks" {
		t.Fatalf("store shared the caller's map")
	}
}

func TestLeagueStoreSaveResults(t *testing.T) {
	ctx := context.Background()
	store := NewLeagueStore()
	_ = store.CreateLeague(ctx, domain.League{ID: "l1"}, domain.Participant{ID: "m", LeagueID: "l1", DisplayName: "Boss"})

	league := domain.League{ID: "l1", Results: domain.Answers{"winner": domain.Text("seahawks")}}
	scored := []domain.Participant{{ID: "m", LeagueID: "l1", DisplayName: "Boss", Score: 5}}
	if err := store.SaveResults(ctx, league, scored); err != nil {
		t.Fatalf("save results: %v", err)
	}

	got, _ := store.GetLeague(ctx, "l1")
	if _, ok := got.Results.Lookup("winner"); !ok {
		t.Fatalf("expected results stored")
	}
	p, _ := store.GetParticipant(ctx, "l1", "m")
	if p.Score != 5 {
		t.Fatalf("expected score 5, got %d", p.Score)
	}
	if _, err := store.GetLeague(ctx, "missing"); !errors.Is(err, domain.ErrLeagueNotFound) {
		t.Fatalf("expected league not found, got %v", err)
	}
}
