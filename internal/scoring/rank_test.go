package scoring_test

import (
	"reflect"
	"testing"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/scoring"
)

func TestRankOrdersByScoreTiebreakName(t *testing.T) {
	participants := []domain.Participant{
		{ID: "1", DisplayName: "Zebras", Score: 70, TiebreakDistance: domain.KnownDistance(5)},
		{ID: "2", DisplayName: "Aardvarks", Score: 70, TiebreakDistance: domain.KnownDistance(3)},
		{ID: "3", DisplayName: "Middlers", Score: 50, TiebreakDistance: domain.KnownDistance(10)},
	}

	ranked := scoring.Rank(participants)
	assertOrder(t, ranked, "Aardvarks", "Zebras", "Middlers")
	if participants[0].DisplayName != "Zebras" {
		t.Fatalf("input was reordered")
	}
}

func TestRankUnknownDistanceLoses(t *testing.T) {
	participants := []domain.Participant{
		{DisplayName: "Anchors", Score: 20},
		{DisplayName: "Bears", Score: 20, TiebreakDistance: domain.KnownDistance(40)},
		{DisplayName: "Colts", Score: 20, TiebreakDistance: domain.KnownDistance(0)},
	}
	assertOrder(t, scoring.Rank(participants), "Colts", "Bears", "Anchors")
}

func TestRankFallsBackToName(t *testing.T) {
	participants := []domain.Participant{
		{DisplayName: "delta", Score: 10},
		{DisplayName: "Charlie", Score: 10},
		{DisplayName: "bravo", Score: 10},
	}
	assertOrder(t, scoring.Rank(participants), "bravo", "Charlie", "delta")
}

func TestRankIsStableAndIdempotent(t *testing.T) {
	participants := []domain.Participant{
		{ID: "first", DisplayName: "Same", Score: 10},
		{ID: "second", DisplayName: "Same", Score: 10},
		{ID: "third", DisplayName: "Other", Score: 30},
	}
	a := scoring.Rank(participants)
	b := scoring.Rank(participants)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("rank not idempotent: %+v vs %+v", a, b)
	}
	if a[0].ID != "third" || a[1].ID != "first" || a[2].ID != "second" {
		t.Fatalf("unexpected order %s,%s,%s", a[0].ID, a[1].ID, a[2].ID)
	}
}

func TestRankEmpty(t *testing.T) {
	if got := scoring.Rank(nil); len(got) != 0 {
		t.Fatalf("expected empty ranking, got %d", len(got))
	}
}

func TestRankByCompletion(t *testing.T) {
	questions := questionsNamed("a", "b", "c")
	participants := []domain.Participant{
		{DisplayName: "Leaders", Score: 100, Predictions: domain.Answers{"a": domain.Text("x")}},
		{DisplayName: "Keen", Predictions: domain.Answers{"a": domain.Text("x"), "b": domain.Int(0), "c": domain.Text("y")}},
		{DisplayName: "Ants", Predictions: domain.Answers{"a": domain.Text("x")}},
		{DisplayName: "Idle"},
	}
	assertOrder(t, scoring.RankByCompletion(participants, questions), "Keen", "Ants", "Leaders", "Idle")
}

func assertOrder(t *testing.T, ranked []domain.Participant, names ...string) {
	t.Helper()
	if len(ranked) != len(names) {
		t.Fatalf("expected %d participants, got %d", len(names), len(ranked))
	}
	for i, name := range names {
		if ranked[i].DisplayName != name {
			t.Fatalf("position %d: expected %s, got %s", i+1, name, ranked[i].DisplayName)
		}
	}
}
