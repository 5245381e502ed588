package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/app"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/infra/memory"
)

func TestJoinAndPredict(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	league, manager, err := service.CreateLeague(ctx, "Office Pool", "superbowl", "Boss")
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if !manager.IsManager {
		t.Fatalf("creator should be manager")
	}

	p, err := service.Join(ctx, league.ID, "  Hawks  ")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if p.DisplayName != "Hawks" {
		t.Fatalf("expected trimmed name, got %q", p.DisplayName)
	}
	if _, err := service.Join(ctx, league.ID, "hawks"); !errors.Is(err, domain.ErrDuplicateDisplayName) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
	if _, err := service.Join(ctx, league.ID, "ab"); !errors.Is(err, domain.ErrInvalidDisplayName) {
		t.Fatalf("expected invalid name error, got %v", err)
	}

	p, err = service.SubmitPredictions(ctx, league.ID, p.ID, domain.Answers{
		"winner":      domain.Text("Seattle Seahawks"),
		"totalTDs":    domain.Text("4"),
		"totalPoints": domain.Int(45),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := p.Predictions["winner"].String(); got != "seattle-seahawks" {
		t.Fatalf("expected slugged winner, got %q", got)
	}
	if v := p.Predictions["totalTDs"]; !v.IsNumber() {
		t.Fatalf("expected numeric totalTDs, got %+v", v)
	}
	if p.Score != 0 || p.TiebreakDistance.Known() {
		t.Fatalf("no results yet, got score %d distance %v", p.Score, p.TiebreakDistance)
	}

	progress, err := service.Progress(ctx, league.ID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if progress[0].DisplayName != "Hawks" || progress[0].Answered != 3 || progress[0].Completion != 43 {
		t.Fatalf("unexpected progress %+v", progress[0])
	}
}

func TestRecordResultsRanksLeague(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	league, manager, _ := service.CreateLeague(ctx, "", "superbowl", "Boss")

	zebras := joinWith(t, service, league.ID, "Zebras", domain.Answers{
		"winner": domain.Text("seattle-seahawks"), "totalTDs": domain.Int(4), "totalPoints": domain.Int(50),
	})
	aardvarks := joinWith(t, service, league.ID, "Aardvarks", domain.Answers{
		"winner": domain.Text("seattle-seahawks"), "totalTDs": domain.Int(4), "totalPoints": domain.Int(42),
	})
	joinWith(t, service, league.ID, "Middlers", domain.Answers{
		"winner": domain.Text("new-england-patriots"), "totalTDs": domain.Int(4), "totalPoints": domain.Int(45),
	})

	if _, err := service.RecordResults(ctx, league.ID, zebras.ID, domain.Answers{"winner": domain.Text("seahawks")}); !errors.Is(err, domain.ErrNotManager) {
		t.Fatalf("expected manager check, got %v", err)
	}

	lb, err := service.RecordResults(ctx, league.ID, manager.ID, domain.Answers{
		"winner":      domain.Text("Seahawks"),
		"totalTDs":    domain.Int(4),
		"totalPoints": domain.Int(45),
	})
	if err != nil {
		t.Fatalf("record results: %v", err)
	}
	if !lb.ResultsRecorded || lb.MaxScore != 30 {
		t.Fatalf("unexpected leaderboard header %+v", lb)
	}

	want := []string{"Aardvarks", "Zebras", "Middlers", "Boss"}
	for i, name := range want {
		if lb.Entries[i].DisplayName != name || lb.Entries[i].Position != i+1 {
			t.Fatalf("position %d: expected %s, got %+v", i+1, name, lb.Entries[i])
		}
	}
	if lb.Entries[0].Score != 10 {
		t.Fatalf("expected 10 points, got %d", lb.Entries[0].Score)
	}
	if d, ok := lb.Entries[0].TiebreakDistance.Value(); !ok || d != 3 {
		t.Fatalf("expected distance 3, got %v", lb.Entries[0].TiebreakDistance)
	}
	if lb.Entries[3].TiebreakDistance.Known() {
		t.Fatalf("manager without guess should have unknown distance")
	}

	stored, err := service.Explain(ctx, league.ID, aardvarks.ID)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if stored.Score != 10 || len(stored.Lines) != 7 {
		t.Fatalf("unexpected explanation %+v", stored)
	}
}

func TestPredictionsAfterResultsAreScored(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	league, manager, _ := service.CreateLeague(ctx, "", "superbowl", "Boss")
	if _, err := service.RecordResults(ctx, league.ID, manager.ID, domain.Answers{"overtime": domain.Text("no")}); err != nil {
		t.Fatalf("record: %v", err)
	}

	p, err := service.SubmitPredictions(ctx, league.ID, manager.ID, domain.Answers{"overtime": domain.Text("No")})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if p.Score != 5 {
		t.Fatalf("expected 5 points, got %d", p.Score)
	}

	p, err = service.SubmitPredictions(ctx, league.ID, manager.ID, domain.Answers{"overtime": domain.Text("")})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if p.Score != 0 {
		t.Fatalf("expected cleared answer to score 0, got %d", p.Score)
	}
}

func TestSubmitRejectsInvalidAnswers(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	league, manager, _ := service.CreateLeague(ctx, "", "superbowl", "Boss")

	if _, err := service.SubmitPredictions(ctx, league.ID, manager.ID, domain.Answers{"mvp": domain.Text("x")}); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected unknown question, got %v", err)
	}
	if _, err := service.SubmitPredictions(ctx, league.ID, manager.ID, domain.Answers{"totalTDs": domain.Text("lots")}); !errors.Is(err, domain.ErrInvalidAnswer) {
		t.Fatalf("expected invalid numeric answer, got %v", err)
	}
	if _, err := service.SubmitPredictions(ctx, league.ID, "nobody", domain.Answers{}); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected participant error, got %v", err)
	}
	if _, err := service.SubmitPredictions(ctx, "nowhere", manager.ID, domain.Answers{}); !errors.Is(err, domain.ErrLeagueNotFound) {
		t.Fatalf("expected league error, got %v", err)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	league, manager, _ := service.CreateLeague(ctx, "", "superbowl", "Boss")

	ch, cancel, err := service.Subscribe(ctx, league.ID)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	initial := <-ch
	if len(initial.Entries) != 1 {
		t.Fatalf("expected initial snapshot with manager, got %+v", initial.Entries)
	}

	if _, err := service.Join(ctx, league.ID, "Hawks"); err != nil {
		t.Fatalf("join: %v", err)
	}
	update := <-ch
	if len(update.Entries) != 2 {
		t.Fatalf("expected 2 entries after join, got %+v", update.Entries)
	}

	if _, err := service.SubmitPredictions(ctx, league.ID, manager.ID, domain.Answers{"winner": domain.Text("seahawks")}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	update = <-ch
	if update.Entries[0].Completion == 0 && update.Entries[1].Completion == 0 {
		t.Fatalf("expected completion to move, got %+v", update.Entries)
	}
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	league, manager, _ := service.CreateLeague(ctx, "", "superbowl", "Boss")
	p, _ := service.Join(ctx, league.ID, "Hawks")

	if err := service.RemoveParticipant(ctx, league.ID, p.ID, manager.ID); !errors.Is(err, domain.ErrNotManager) {
		t.Fatalf("expected manager check, got %v", err)
	}
	if err := service.RemoveParticipant(ctx, league.ID, manager.ID, manager.ID); !errors.Is(err, domain.ErrManagerRemoval) {
		t.Fatalf("expected manager removal error, got %v", err)
	}
	if err := service.RemoveParticipant(ctx, league.ID, manager.ID, p.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	lb, _ := service.Leaderboard(ctx, league.ID)
	if len(lb.Entries) != 1 {
		t.Fatalf("expected only the manager left, got %+v", lb.Entries)
	}
}

func TestReconcileAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	league, manager, _ := service.CreateLeague(ctx, "", "superbowl", "Boss")
	_, _ = service.SubmitPredictions(ctx, league.ID, manager.ID, domain.Answers{"winner": domain.Text("seahawks")})
	_, _ = service.RecordResults(ctx, league.ID, manager.ID, domain.Answers{"winner": domain.Text("seahawks")})

	before, _ := service.Leaderboard(ctx, league.ID)
	if err := service.ReconcileAll(ctx); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	after, _ := service.Leaderboard(ctx, league.ID)
	if before.Entries[0].Score != 5 || after.Entries[0].Score != before.Entries[0].Score {
		t.Fatalf("reconcile changed scores: %+v vs %+v", before.Entries, after.Entries)
	}
}

func joinWith(t *testing.T, service *app.LeagueService, leagueID, name string, answers domain.Answers) domain.Participant {
	t.Helper()
	p, err := service.Join(context.Background(), leagueID, name)
	if err != nil {
		t.Fatalf("join %s: %v", name, err)
	}
	p, err = service.SubmitPredictions(context.Background(), leagueID, p.ID, answers)
	if err != nil {
		t.Fatalf("submit %s: %v", name, err)
	}
	return p
}

func newTestService() *app.LeagueService {
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string]domain.QuestionSet{
		"superbowl": testQuestionSet(),
	}), 5*time.Minute)

	now := time.Date(2026, 2, 8, 15, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return app.NewLeagueService(memory.NewLeagueStore(), questions, memory.NewSessionStore(), app.WithClock(clock))
}

func testQuestionSet() domain.QuestionSet {
	return domain.QuestionSet{
		ID:           "superbowl",
		Title:        "Super Bowl LX",
		TiebreakerID: "totalPoints",
		Questions: []domain.Question{
			{ID: "winner", Label: "Who wins?", Type: domain.QuestionCategorical, Options: []string{"Seattle Seahawks", "New England Patriots"}, Points: 5},
			{ID: "totalTDs", Label: "Total touchdowns", Type: domain.QuestionNumeric, Points: 5},
			{ID: "overtime", Label: "Overtime?", Type: domain.QuestionCategorical, Options: []string{"Yes", "No"}, Points: 5},
			{ID: "totalPoints", Label: "Total points", Type: domain.QuestionNumeric, Points: 0},
			{ID: "mvpPosition", Label: "MVP position", Type: domain.QuestionCategorical, Options: []string{"Quarterback", "Running Back", "Receiver", "Defense"}, Points: 5},
			{ID: "firstScore", Label: "First score", Type: domain.QuestionCategorical, Options: []string{"Touchdown", "Field Goal", "Safety"}, Points: 5},
			{ID: "coinToss", Label: "Coin toss", Type: domain.QuestionCategorical, Options: []string{"Heads", "Tails"}, Points: 5},
		},
	}
}
