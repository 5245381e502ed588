package scoring

import (
	"sort"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Rank orders participants for the standings: score descending, then
// tiebreaker distance ascending with unknown distances last, then display
// name. The input slice is left untouched and remaining ties keep input order.
func Rank(participants []domain.Participant) []domain.Participant {
	out := make([]domain.Participant, len(participants))
	copy(out, participants)

	names := newNameComparer()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if c := a.TiebreakDistance.Compare(b.TiebreakDistance); c != 0 {
			return c < 0
		}
		return names.less(a.DisplayName, b.DisplayName)
	})
	return out
}

// RankByCompletion orders participants with the most answered questions
// first, then by display name. Scores play no part.
func RankByCompletion(participants []domain.Participant, questions []domain.Question) []domain.Participant {
	type counted struct {
		p        domain.Participant
		answered int
	}
	rows := make([]counted, len(participants))
	for i, p := range participants {
		rows[i] = counted{p: p, answered: CountAnswered(p.Predictions, questions)}
	}

	names := newNameComparer()
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].answered != rows[j].answered {
			return rows[i].answered > rows[j].answered
		}
		return names.less(rows[i].p.DisplayName, rows[j].p.DisplayName)
	})

	out := make([]domain.Participant, len(rows))
	for i, r := range rows {
		out[i] = r.p
	}
	return out
}

// nameComparer collates display names the way people expect them listed.
// A collator keeps internal buffers, so each ranking gets its own.
type nameComparer struct {
	col *collate.Collator
}

func newNameComparer() nameComparer {
	return nameComparer{col: collate.New(language.English)}
}

func (c nameComparer) less(a, b string) bool {
	if r := c.col.CompareString(a, b); r != 0 {
		return r < 0
	}
	// Fully collation-equal names still need a deterministic order.
	return a < b
}
