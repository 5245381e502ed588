package scoring

import "github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"

// TiebreakDistance measures how far the predicted tiebreaker answer was from
// the actual one. The distance is unknown when either side is missing or not
// an integer, or when the difference does not fit an int.
func TiebreakDistance(predicted, actual domain.Answers, tiebreakerID string) domain.Distance {
	if predicted == nil || actual == nil || tiebreakerID == "" {
		return domain.UnknownDistance()
	}
	p, ok := predicted.Lookup(tiebreakerID)
	if !ok {
		return domain.UnknownDistance()
	}
	a, ok := actual.Lookup(tiebreakerID)
	if !ok {
		return domain.UnknownDistance()
	}
	pv, ok := p.Int()
	if !ok {
		return domain.UnknownDistance()
	}
	av, ok := a.Int()
	if !ok {
		return domain.UnknownDistance()
	}
	d := pv - av
	if (av > 0 && d > pv) || (av < 0 && d < pv) {
		return domain.UnknownDistance()
	}
	if d < 0 {
		d = -d
	}
	if d < 0 {
		return domain.UnknownDistance()
	}
	return domain.KnownDistance(d)
}
