package scoring_test

import (
	"testing"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/scoring"
)

func TestTiebreakDistance(t *testing.T) {
	actual := domain.Answers{"totalPoints": domain.Int(45)}

	cases := []struct {
		name      string
		predicted domain.Answers
		actual    domain.Answers
		want      domain.Distance
	}{
		{"exact", domain.Answers{"totalPoints": domain.Int(45)}, actual, domain.KnownDistance(0)},
		{"under", domain.Answers{"totalPoints": domain.Int(40)}, actual, domain.KnownDistance(5)},
		{"over as text", domain.Answers{"totalPoints": domain.Text("52")}, actual, domain.KnownDistance(7)},
		{"empty guess", domain.Answers{"totalPoints": domain.Text("")}, actual, domain.UnknownDistance()},
		{"missing guess", domain.Answers{}, actual, domain.UnknownDistance()},
		{"no results", domain.Answers{"totalPoints": domain.Int(45)}, nil, domain.UnknownDistance()},
		{"no predictions", nil, actual, domain.UnknownDistance()},
		{"garbage", domain.Answers{"totalPoints": domain.Text("many")}, actual, domain.UnknownDistance()},
		{"huge text guess", domain.Answers{"totalPoints": domain.Text("9223372036854775807")}, domain.Answers{"totalPoints": domain.Text("-1")}, domain.UnknownDistance()},
		{"huge numeric guess", domain.Answers{"totalPoints": domain.Number(9223372036854775807)}, domain.Answers{"totalPoints": domain.Int(0)}, domain.UnknownDistance()},
		{"largest safe spread", domain.Answers{"totalPoints": domain.Int(domain.MaxSafeInteger)}, domain.Answers{"totalPoints": domain.Int(-domain.MaxSafeInteger)}, domain.KnownDistance(2 * domain.MaxSafeInteger)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scoring.TiebreakDistance(tc.predicted, tc.actual, "totalPoints")
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTiebreakDistanceWithoutTiebreaker(t *testing.T) {
	answers := domain.Answers{"totalPoints": domain.Int(45)}
	if got := scoring.TiebreakDistance(answers, answers, ""); got.Known() {
		t.Fatalf("expected unknown distance, got %v", got)
	}
}

func TestHugeGuessDoesNotBeatExactGuess(t *testing.T) {
	questions := []domain.Question{{ID: "totalPoints", Type: domain.QuestionNumeric}}
	actual := domain.Answers{"totalPoints": domain.Int(0)}
	exact := domain.Participant{ID: "a", DisplayName: "Exact", Predictions: domain.Answers{"totalPoints": domain.Int(0)}}
	wild := domain.Participant{ID: "b", DisplayName: "Wild", Predictions: domain.Answers{"totalPoints": domain.Text("9223372036854775807")}}
	for _, p := range []*domain.Participant{&exact, &wild} {
		p.Score = scoring.CalculateScore(p.Predictions, actual, questions)
		p.TiebreakDistance = scoring.TiebreakDistance(p.Predictions, actual, "totalPoints")
	}
	ranked := scoring.Rank([]domain.Participant{wild, exact})
	if ranked[0].DisplayName != "Exact" {
		t.Fatalf("expected exact guess first, got %+v", ranked)
	}
	if d, ok := ranked[1].TiebreakDistance.Value(); ok && d < 0 {
		t.Fatalf("negative distance %d", d)
	}
}
