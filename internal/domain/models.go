package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// QuestionType selects how predicted and actual answers are compared.
type QuestionType string

const (
	QuestionCategorical QuestionType = "categorical"
	QuestionNumeric     QuestionType = "numeric"
)

// Question models one predictable event of a game.
type Question struct {
	ID      string       `json:"id" yaml:"id"`
	Label   string       `json:"label" yaml:"label"`
	Type    QuestionType `json:"type" yaml:"type"`
	Options []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Points  int          `json:"points" yaml:"points"` // zero marks the tiebreaker
}

// IsTiebreaker reports whether the question only serves to break score ties.
func (q Question) IsTiebreaker() bool {
	return q.Points == 0
}

// QuestionSet is the ordered list of questions for one game.
type QuestionSet struct {
	ID           string     `json:"id" yaml:"id"`
	Title        string     `json:"title" yaml:"title"`
	TiebreakerID string     `json:"tiebreakerId,omitempty" yaml:"tiebreaker,omitempty"`
	Questions    []Question `json:"questions" yaml:"questions"`
}

// Question looks up a question by id.
func (s QuestionSet) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// TiebreakerQuestionID returns the configured tiebreaker, falling back to the
// first zero-point question of the set.
func (s QuestionSet) TiebreakerQuestionID() string {
	if s.TiebreakerID != "" {
		return s.TiebreakerID
	}
	for _, q := range s.Questions {
		if q.IsTiebreaker() {
			return q.ID
		}
	}
	return ""
}

// League groups participants predicting against one question set.
type League struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	QuestionSetID string    `json:"questionSetId"`
	Results       Answers   `json:"results,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Participant is one user's prediction entry in a league. Score and
// TiebreakDistance are derived from the league results.
type Participant struct {
	ID               string    `json:"id"`
	LeagueID         string    `json:"leagueId"`
	DisplayName      string    `json:"displayName"`
	Predictions      Answers   `json:"predictions,omitempty"`
	Score            int       `json:"score"`
	TiebreakDistance Distance  `json:"tiebreakDistance"`
	IsManager        bool      `json:"isManager"`
	JoinedAt         time.Time `json:"joinedAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// LeaderboardEntry is a ranked, display-ready view of a participant.
type LeaderboardEntry struct {
	Position         int      `json:"position"`
	ParticipantID    string   `json:"participantId"`
	DisplayName      string   `json:"displayName"`
	Score            int      `json:"score"`
	TiebreakDistance Distance `json:"tiebreakDistance"`
	Completion       int      `json:"completion"`
	IsManager        bool     `json:"isManager"`
}

// Leaderboard captures the ordered standings of a league.
type Leaderboard struct {
	LeagueID        string             `json:"leagueId"`
	MaxScore        int                `json:"maxScore"`
	ResultsRecorded bool               `json:"resultsRecorded"`
	Entries         []LeaderboardEntry `json:"entries"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// ProgressEntry reports how far a participant got through the question set.
type ProgressEntry struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
	Answered      int    `json:"answered"`
	Total         int    `json:"total"`
	Completion    int    `json:"completion"`
}

const (
	minDisplayName = 3
	maxDisplayName = 15
)

// NormalizeDisplayName trims the name and enforces its length bounds.
func NormalizeDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < minDisplayName || n > maxDisplayName {
		return "", ErrInvalidDisplayName
	}
	return name, nil
}

// SameDisplayName compares names the way league uniqueness is enforced.
func SameDisplayName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ScoreExplanation is the per-question trace of how a score was reached.
type ScoreExplanation struct {
	ParticipantID string   `json:"participantId"`
	Score         int      `json:"score"`
	MaxScore      int      `json:"maxScore"`
	Lines         []string `json:"lines"`
}
