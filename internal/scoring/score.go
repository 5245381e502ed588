package scoring

import (
	"fmt"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
)

// CalculateScore sums the points of every correctly predicted question.
// Tiebreaker questions never score. A nil predictions or results map means
// nothing has been entered yet and scores 0.
func CalculateScore(predicted, actual domain.Answers, questions []domain.Question) int {
	if predicted == nil || actual == nil {
		return 0
	}
	return score(predicted, actual, questions, nil)
}

// ExplainScore is CalculateScore plus one trace line per question describing
// how it was scored.
func ExplainScore(predicted, actual domain.Answers, questions []domain.Question) (int, []string) {
	lines := make([]string, 0, len(questions))
	total := score(predicted, actual, questions, func(line string) {
		lines = append(lines, line)
	})
	if predicted == nil || actual == nil {
		total = 0
	}
	return total, lines
}

// MaxScore is the best achievable score: the points of every non-tiebreaker question.
func MaxScore(questions []domain.Question) int {
	total := 0
	for _, q := range questions {
		if q.Points > 0 {
			total += q.Points
		}
	}
	return total
}

func score(predicted, actual domain.Answers, questions []domain.Question, trace func(string)) int {
	if trace == nil {
		trace = func(string) {}
	}
	total := 0
	for _, q := range questions {
		if q.IsTiebreaker() {
			trace(fmt.Sprintf("%s: skipped (tiebreaker, no points)", q.ID))
			continue
		}
		p, ok := predicted.Lookup(q.ID)
		if !ok {
			trace(fmt.Sprintf("%s: skipped (no prediction)", q.ID))
			continue
		}
		a, ok := actual.Lookup(q.ID)
		if !ok {
			trace(fmt.Sprintf("%s: skipped (no actual result)", q.ID))
			continue
		}
		if IsCorrect(q, p, a) {
			total += q.Points
			trace(fmt.Sprintf("%s: correct +%d (predicted %q, actual %q)", q.ID, q.Points, p, a))
			continue
		}
		trace(fmt.Sprintf("%s: incorrect (predicted %q, actual %q)", q.ID, p, a))
	}
	return total
}
