package app

import (
	"fmt"
	"sort"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	// maxOptionTypos bounds how far a misspelled categorical answer may be from an option.
	maxOptionTypos = 2
	// minPartialMatch is the shortest answer resolved as an abbreviation of an option.
	minPartialMatch = 3
)

// NormalizeAnswers validates submitted answers against the question set and
// puts them in canonical form: integers for numeric questions, option slugs
// for categorical ones. Empty values are kept so callers can clear answers.
func NormalizeAnswers(set domain.QuestionSet, answers domain.Answers) (domain.Answers, error) {
	out := make(domain.Answers, len(answers))
	for id, v := range answers {
		q, ok := set.Question(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, id)
		}
		if v.IsEmpty() {
			out[id] = domain.Value{}
			continue
		}
		switch q.Type {
		case domain.QuestionNumeric:
			n, ok := v.Int()
			if !ok {
				return nil, fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidAnswer, id, v)
			}
			out[id] = domain.Int(n)
		default:
			opt, err := resolveOption(q, v.String())
			if err != nil {
				return nil, err
			}
			out[id] = domain.Text(opt)
		}
	}
	return out, nil
}

// resolveOption maps free text onto one of the question's option slugs.
// Exact slugs win, then an unambiguous partial match, then a close misspelling.
func resolveOption(q domain.Question, raw string) (string, error) {
	candidate := domain.Slug(raw)
	if candidate == "" {
		return "", fmt.Errorf("%w: %s: %q", domain.ErrInvalidAnswer, q.ID, raw)
	}
	options := q.OptionSlugs()
	if len(options) == 0 {
		return candidate, nil
	}
	for _, opt := range options {
		if opt == candidate {
			return opt, nil
		}
	}

	if ranks := fuzzy.RankFindNormalizedFold(candidate, options); len(candidate) >= minPartialMatch && len(ranks) > 0 {
		sort.Sort(ranks)
		if len(ranks) == 1 || ranks[0].Distance < ranks[1].Distance {
			return ranks[0].Target, nil
		}
		return "", fmt.Errorf("%w: %s: %q matches several options", domain.ErrInvalidAnswer, q.ID, raw)
	}

	best, bestDistance, tied := "", maxOptionTypos+1, false
	for _, opt := range options {
		d := fuzzy.LevenshteinDistance(candidate, opt)
		switch {
		case d < bestDistance:
			best, bestDistance, tied = opt, d, false
		case d == bestDistance:
			tied = true
		}
	}
	if best == "" || tied {
		return "", fmt.Errorf("%w: %s: %q is not one of the options", domain.ErrInvalidAnswer, q.ID, raw)
	}
	return best, nil
}
