package scoring

import "github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"

// CountAnswered counts the questions with a non-empty answer. Numeric zero counts.
func CountAnswered(answers domain.Answers, questions []domain.Question) int {
	if answers == nil {
		return 0
	}
	n := 0
	for _, q := range questions {
		if _, ok := answers.Lookup(q.ID); ok {
			n++
		}
	}
	return n
}

// CompletionPercentage is the answered share of questions, 0..100, rounded
// half up. An empty question set is complete.
func CompletionPercentage(answers domain.Answers, questions []domain.Question) int {
	total := len(questions)
	if total == 0 {
		return 100
	}
	answered := CountAnswered(answers, questions)
	return (200*answered + total) / (2 * total)
}
