package scoring

import "github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"

// IsCorrect reports whether a predicted answer matches the actual one.
// Unanswered or unresolved questions are never correct. Numeric questions
// compare integer values, so "5" matches 5; anything that does not parse as an
// integer never matches. Categorical questions compare slugs exactly.
func IsCorrect(q domain.Question, predicted, actual domain.Value) bool {
	if predicted.IsEmpty() || actual.IsEmpty() {
		return false
	}
	if q.Type == domain.QuestionNumeric {
		p, ok := predicted.Int()
		if !ok {
			return false
		}
		a, ok := actual.Int()
		if !ok {
			return false
		}
		return p == a
	}
	return predicted.String() == actual.String()
}
