package postgres

import (
	"time"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/uptrace/bun"
)

type leagueRow struct {
	bun.BaseModel `bun:"table:leagues,alias:l"`

	ID            string         `bun:"id,pk"`
	Name          string         `bun:"name,notnull"`
	QuestionSetID string         `bun:"question_set_id,notnull"`
	Results       domain.Answers `bun:"results,type:jsonb,notnull"`
	CreatedAt     time.Time      `bun:"created_at,notnull"`
	UpdatedAt     time.Time      `bun:"updated_at,notnull"`
}

// participantRow stores an unknown tiebreak distance as 0 with
// tiebreak_known=false; readers restore the distinction from the flag.
type participantRow struct {
	bun.BaseModel `bun:"table:participants,alias:p"`

	ID               string         `bun:"id,pk"`
	LeagueID         string         `bun:"league_id,notnull"`
	DisplayName      string         `bun:"display_name,notnull"`
	Predictions      domain.Answers `bun:"predictions,type:jsonb,notnull"`
	Score            int            `bun:"score,notnull"`
	TiebreakDistance int            `bun:"tiebreak_distance,notnull"`
	TiebreakKnown    bool           `bun:"tiebreak_known,notnull"`
	IsManager        bool           `bun:"is_manager,notnull"`
	JoinedAt         time.Time      `bun:"joined_at,notnull"`
	UpdatedAt        time.Time      `bun:"updated_at,notnull"`
}

func toLeagueRow(l domain.League) *leagueRow {
	return &leagueRow{
		ID:            l.ID,
		Name:          l.Name,
		QuestionSetID: l.QuestionSetID,
		Results:       nonNil(l.Results),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func (r leagueRow) toDomain() domain.League {
	return domain.League{
		ID:            r.ID,
		Name:          r.Name,
		QuestionSetID: r.QuestionSetID,
		Results:       r.Results,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toParticipantRow(p domain.Participant) *participantRow {
	distance, known := p.TiebreakDistance.Value()
	return &participantRow{
		ID:               p.ID,
		LeagueID:         p.LeagueID,
		DisplayName:      p.DisplayName,
		Predictions:      nonNil(p.Predictions),
		Score:            p.Score,
		TiebreakDistance: distance,
		TiebreakKnown:    known,
		IsManager:        p.IsManager,
		JoinedAt:         p.JoinedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (r participantRow) toDomain() domain.Participant {
	distance := domain.UnknownDistance()
	if r.TiebreakKnown {
		distance = domain.KnownDistance(r.TiebreakDistance)
	}
	return domain.Participant{
		ID:               r.ID,
		LeagueID:         r.LeagueID,
		DisplayName:      r.DisplayName,
		Predictions:      r.Predictions,
		Score:            r.Score,
		TiebreakDistance: distance,
		IsManager:        r.IsManager,
		JoinedAt:         r.JoinedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func nonNil(a domain.Answers) domain.Answers {
	if a == nil {
		return domain.Answers{}
	}
	return a
}
