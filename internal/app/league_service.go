package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/scoring"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LeagueStore persists leagues and their participants.
type LeagueStore interface {
	CreateLeague(ctx context.Context, league domain.League, manager domain.Participant) error
	GetLeague(ctx context.Context, leagueID string) (domain.League, error)
	ListLeagueIDs(ctx context.Context) ([]string, error)
	AddParticipant(ctx context.Context, p domain.Participant) error
	GetParticipant(ctx context.Context, leagueID, participantID string) (domain.Participant, error)
	ListParticipants(ctx context.Context, leagueID string) ([]domain.Participant, error)
	SaveParticipant(ctx context.Context, p domain.Participant) error
	// SaveResults stores the league results together with every participant's
	// recomputed score in one atomic write.
	SaveResults(ctx context.Context, league domain.League, participants []domain.Participant) error
	DeleteParticipant(ctx context.Context, leagueID, participantID string) error
}

// QuestionRepository loads question sets (from cache/backing store).
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// SessionRepository abstracts how live league sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(leagueID string) *Session
	Get(leagueID string) (*Session, bool)
	DeleteIfEmpty(leagueID string)
}

// SnapshotStore keeps the latest leaderboard of a league outside the process.
type SnapshotStore interface {
	SaveLeaderboard(ctx context.Context, lb domain.Leaderboard) error
	LoadLeaderboard(ctx context.Context, leagueID string) (domain.Leaderboard, bool, error)
	DeleteLeaderboard(ctx context.Context, leagueID string) error
}

// LeagueService contains the league use cases around the scoring engine.
type LeagueService struct {
	leagues   LeagueStore
	questions QuestionRepository
	sessions  SessionRepository
	snapshots SnapshotStore
	now       func() time.Time
	log       logrus.FieldLogger

	// locks serializes writes per league so recomputes see a consistent snapshot.
	locks sync.Map
}

// Option customizes a LeagueService.
type Option func(*LeagueService)

// WithSnapshotStore publishes every leaderboard change to store as well.
func WithSnapshotStore(store SnapshotStore) Option {
	return func(s *LeagueService) { s.snapshots = store }
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *LeagueService) { s.now = now }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *LeagueService) { s.log = log }
}

func NewLeagueService(leagues LeagueStore, questions QuestionRepository, sessions SessionRepository, opts ...Option) *LeagueService {
	s := &LeagueService{
		leagues:   leagues,
		questions: questions,
		sessions:  sessions,
		now:       time.Now,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateLeague opens a league on a question set with its creator as manager.
func (s *LeagueService) CreateLeague(ctx context.Context, name, questionSetID, managerName string) (domain.League, domain.Participant, error) {
	set, err := s.questions.GetQuestionSet(ctx, questionSetID)
	if err != nil {
		return domain.League{}, domain.Participant{}, err
	}
	managerName, err = domain.NormalizeDisplayName(managerName)
	if err != nil {
		return domain.League{}, domain.Participant{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = set.Title
	}

	now := s.now()
	league := domain.League{
		ID:            uuid.NewString(),
		Name:          name,
		QuestionSetID: set.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	manager := domain.Participant{
		ID:          uuid.NewString(),
		LeagueID:    league.ID,
		DisplayName: managerName,
		IsManager:   true,
		JoinedAt:    now,
		UpdatedAt:   now,
	}
	if err := s.leagues.CreateLeague(ctx, league, manager); err != nil {
		return domain.League{}, domain.Participant{}, err
	}
	s.log.WithFields(logrus.Fields{"league": league.ID, "questionSet": set.ID}).Info("league created")
	return league, manager, nil
}

// League returns the league record.
func (s *LeagueService) League(ctx context.Context, leagueID string) (domain.League, error) {
	return s.leagues.GetLeague(ctx, leagueID)
}

// Participant returns one participant of a league.
func (s *LeagueService) Participant(ctx context.Context, leagueID, participantID string) (domain.Participant, error) {
	return s.leagues.GetParticipant(ctx, leagueID, participantID)
}

// Join registers a new participant with an empty prediction entry.
func (s *LeagueService) Join(ctx context.Context, leagueID, displayName string) (domain.Participant, error) {
	displayName, err := domain.NormalizeDisplayName(displayName)
	if err != nil {
		return domain.Participant{}, err
	}

	unlock := s.lock(leagueID)
	defer unlock()

	league, set, err := s.loadLeague(ctx, leagueID)
	if err != nil {
		return domain.Participant{}, err
	}
	participants, err := s.leagues.ListParticipants(ctx, leagueID)
	if err != nil {
		return domain.Participant{}, err
	}
	for _, p := range participants {
		if domain.SameDisplayName(p.DisplayName, displayName) {
			return domain.Participant{}, domain.ErrDuplicateDisplayName
		}
	}

	now := s.now()
	p := domain.Participant{
		ID:          uuid.NewString(),
		LeagueID:    leagueID,
		DisplayName: displayName,
		JoinedAt:    now,
		UpdatedAt:   now,
	}
	if err := s.leagues.AddParticipant(ctx, p); err != nil {
		return domain.Participant{}, err
	}
	s.log.WithFields(logrus.Fields{"league": leagueID, "participant": p.ID}).Info("participant joined")

	s.refresh(ctx, league, set)
	return p, nil
}

// SubmitPredictions merges answers into a participant's predictions and
// rescores them against the current results. Empty values clear answers.
func (s *LeagueService) SubmitPredictions(ctx context.Context, leagueID, participantID string, answers domain.Answers) (domain.Participant, error) {
	unlock := s.lock(leagueID)
	defer unlock()

	league, set, err := s.loadLeague(ctx, leagueID)
	if err != nil {
		return domain.Participant{}, err
	}
	p, err := s.leagues.GetParticipant(ctx, leagueID, participantID)
	if err != nil {
		return domain.Participant{}, err
	}
	normalized, err := NormalizeAnswers(set, answers)
	if err != nil {
		return domain.Participant{}, err
	}

	p.Predictions = p.Predictions.Merge(normalized)
	Rescore(&p, league, set)
	p.UpdatedAt = s.now()
	if err := s.leagues.SaveParticipant(ctx, p); err != nil {
		return domain.Participant{}, err
	}

	s.refresh(ctx, league, set)
	return p, nil
}

// RecordResults merges actual results (manager only) and rescores every participant.
func (s *LeagueService) RecordResults(ctx context.Context, leagueID, managerID string, results domain.Answers) (domain.Leaderboard, error) {
	unlock := s.lock(leagueID)
	defer unlock()

	league, set, err := s.loadLeague(ctx, leagueID)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	if err := s.requireManager(ctx, leagueID, managerID); err != nil {
		return domain.Leaderboard{}, err
	}
	normalized, err := NormalizeAnswers(set, results)
	if err != nil {
		return domain.Leaderboard{}, err
	}

	league.Results = league.Results.Merge(normalized)
	league.UpdatedAt = s.now()
	lb, err := s.recompute(ctx, league, set, true)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	s.log.WithFields(logrus.Fields{"league": leagueID, "results": len(league.Results)}).Info("results recorded")
	return lb, nil
}

// Recompute rescores every participant of a league from the stored results and
// persists only when a derived value drifted.
func (s *LeagueService) Recompute(ctx context.Context, leagueID string) (domain.Leaderboard, error) {
	unlock := s.lock(leagueID)
	defer unlock()

	league, set, err := s.loadLeague(ctx, leagueID)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return s.recompute(ctx, league, set, false)
}

// ReconcileAll recomputes every league; failures are collected, not fatal.
func (s *LeagueService) ReconcileAll(ctx context.Context) error {
	ids, err := s.leagues.ListLeagueIDs(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		if _, err := s.Recompute(ctx, id); err != nil {
			s.log.WithFields(logrus.Fields{"league": id, "error": err}).Warn("reconcile failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Leaderboard ranks the league's participants for the standings view. A
// published snapshot is served when one exists.
func (s *LeagueService) Leaderboard(ctx context.Context, leagueID string) (domain.Leaderboard, error) {
	if s.snapshots != nil {
		lb, ok, err := s.snapshots.LoadLeaderboard(ctx, leagueID)
		if err != nil {
			s.log.WithFields(logrus.Fields{"league": leagueID, "error": err}).Warn("leaderboard snapshot read failed")
		}
		if ok {
			return lb, nil
		}
	}
	return s.computeLeaderboard(ctx, leagueID)
}

func (s *LeagueService) computeLeaderboard(ctx context.Context, leagueID string) (domain.Leaderboard, error) {
	league, set, err := s.loadLeague(ctx, leagueID)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	participants, err := s.leagues.ListParticipants(ctx, leagueID)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return s.buildLeaderboard(league, set, participants), nil
}

// Progress lists participants with the most complete predictions first.
func (s *LeagueService) Progress(ctx context.Context, leagueID string) ([]domain.ProgressEntry, error) {
	_, set, err := s.loadLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	participants, err := s.leagues.ListParticipants(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	ranked := scoring.RankByCompletion(participants, set.Questions)
	entries := make([]domain.ProgressEntry, 0, len(ranked))
	for _, p := range ranked {
		entries = append(entries, domain.ProgressEntry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Answered:      scoring.CountAnswered(p.Predictions, set.Questions),
			Total:         len(set.Questions),
			Completion:    scoring.CompletionPercentage(p.Predictions, set.Questions),
		})
	}
	return entries, nil
}

// Explain returns the per-question trace behind a participant's score.
func (s *LeagueService) Explain(ctx context.Context, leagueID, participantID string) (domain.ScoreExplanation, error) {
	league, set, err := s.loadLeague(ctx, leagueID)
	if err != nil {
		return domain.ScoreExplanation{}, err
	}
	p, err := s.leagues.GetParticipant(ctx, leagueID, participantID)
	if err != nil {
		return domain.ScoreExplanation{}, err
	}
	score, lines := scoring.ExplainScore(p.Predictions, resultsOrNil(league), set.Questions)
	return domain.ScoreExplanation{
		ParticipantID: p.ID,
		Score:         score,
		MaxScore:      scoring.MaxScore(set.Questions),
		Lines:         lines,
	}, nil
}

// RemoveParticipant deletes a participant's entry (manager only).
func (s *LeagueService) RemoveParticipant(ctx context.Context, leagueID, managerID, participantID string) error {
	unlock := s.lock(leagueID)
	defer unlock()

	league, set, err := s.loadLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	if err := s.requireManager(ctx, leagueID, managerID); err != nil {
		return err
	}
	if participantID == managerID {
		return domain.ErrManagerRemoval
	}
	if err := s.leagues.DeleteParticipant(ctx, leagueID, participantID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"league": leagueID, "participant": participantID}).Info("participant removed")
	s.refresh(ctx, league, set)
	return nil
}

// Subscribe returns a channel that receives leaderboard updates for a league.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *LeagueService) Subscribe(ctx context.Context, leagueID string) (<-chan domain.Leaderboard, func(), error) {
	lb, err := s.computeLeaderboard(ctx, leagueID)
	if err != nil {
		return nil, nil, err
	}
	session := s.sessions.GetOrCreate(leagueID)
	ch, cancelSub := session.subscribe(lb)
	cancel := func() {
		cancelSub()
		s.sessions.DeleteIfEmpty(leagueID)
	}
	return ch, cancel, nil
}

// QuestionSet returns the questions a league predicts on.
func (s *LeagueService) QuestionSet(ctx context.Context, leagueID string) (domain.QuestionSet, error) {
	_, set, err := s.loadLeague(ctx, leagueID)
	return set, err
}

func (s *LeagueService) recompute(ctx context.Context, league domain.League, set domain.QuestionSet, force bool) (domain.Leaderboard, error) {
	participants, err := s.leagues.ListParticipants(ctx, league.ID)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	changed := force
	for i := range participants {
		before := participants[i]
		Rescore(&participants[i], league, set)
		if before.Score != participants[i].Score || before.TiebreakDistance != participants[i].TiebreakDistance {
			changed = true
		}
	}
	if changed {
		if err := s.leagues.SaveResults(ctx, league, participants); err != nil {
			return domain.Leaderboard{}, err
		}
	}
	lb := s.buildLeaderboard(league, set, participants)
	s.publish(ctx, lb)
	return lb, nil
}

// refresh rebuilds the leaderboard after a write and pushes it to listeners.
// Failures only cost a live update, so they are logged.
func (s *LeagueService) refresh(ctx context.Context, league domain.League, set domain.QuestionSet) {
	participants, err := s.leagues.ListParticipants(ctx, league.ID)
	if err != nil {
		s.log.WithFields(logrus.Fields{"league": league.ID, "error": err}).Warn("leaderboard refresh failed")
		return
	}
	s.publish(ctx, s.buildLeaderboard(league, set, participants))
}

func (s *LeagueService) publish(ctx context.Context, lb domain.Leaderboard) {
	if session, ok := s.sessions.Get(lb.LeagueID); ok {
		session.broadcast(lb)
	}
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveLeaderboard(ctx, lb); err != nil {
		s.log.WithFields(logrus.Fields{"league": lb.LeagueID, "error": err}).Warn("leaderboard snapshot failed")
		// a stale snapshot must not outlive a failed save
		if err := s.snapshots.DeleteLeaderboard(ctx, lb.LeagueID); err != nil {
			s.log.WithFields(logrus.Fields{"league": lb.LeagueID, "error": err}).Warn("stale leaderboard snapshot not removed")
		}
	}
}

func (s *LeagueService) buildLeaderboard(league domain.League, set domain.QuestionSet, participants []domain.Participant) domain.Leaderboard {
	return BuildLeaderboard(league, set, participants, s.now())
}

// BuildLeaderboard ranks already scored participants into standings.
func BuildLeaderboard(league domain.League, set domain.QuestionSet, participants []domain.Participant, at time.Time) domain.Leaderboard {
	ranked := scoring.Rank(participants)
	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, p := range ranked {
		entries = append(entries, domain.LeaderboardEntry{
			Position:         i + 1,
			ParticipantID:    p.ID,
			DisplayName:      p.DisplayName,
			Score:            p.Score,
			TiebreakDistance: p.TiebreakDistance,
			Completion:       scoring.CompletionPercentage(p.Predictions, set.Questions),
			IsManager:        p.IsManager,
		})
	}
	return domain.Leaderboard{
		LeagueID:        league.ID,
		MaxScore:        scoring.MaxScore(set.Questions),
		ResultsRecorded: len(league.Results) > 0,
		Entries:         entries,
		UpdatedAt:       at,
	}
}

func (s *LeagueService) loadLeague(ctx context.Context, leagueID string) (domain.League, domain.QuestionSet, error) {
	league, err := s.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return domain.League{}, domain.QuestionSet{}, err
	}
	set, err := s.questions.GetQuestionSet(ctx, league.QuestionSetID)
	if err != nil {
		return domain.League{}, domain.QuestionSet{}, err
	}
	return league, set, nil
}

func (s *LeagueService) requireManager(ctx context.Context, leagueID, participantID string) error {
	p, err := s.leagues.GetParticipant(ctx, leagueID, participantID)
	if errors.Is(err, domain.ErrParticipantNotFound) {
		return domain.ErrNotManager
	}
	if err != nil {
		return err
	}
	if !p.IsManager {
		return domain.ErrNotManager
	}
	return nil
}

func (s *LeagueService) lock(leagueID string) func() {
	v, _ := s.locks.LoadOrStore(leagueID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Rescore refreshes the derived score and tiebreak distance of p against the
// league results.
func Rescore(p *domain.Participant, league domain.League, set domain.QuestionSet) {
	results := resultsOrNil(league)
	p.Score = scoring.CalculateScore(p.Predictions, results, set.Questions)
	p.TiebreakDistance = scoring.TiebreakDistance(p.Predictions, results, set.TiebreakerQuestionID())
}

// resultsOrNil treats a league without any recorded result as having no results at all.
func resultsOrNil(league domain.League) domain.Answers {
	if len(league.Results) == 0 {
		return nil
	}
	return league.Results
}
