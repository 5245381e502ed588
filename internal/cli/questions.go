package cli

import (
	"fmt"
	"os"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"gopkg.in/yaml.v3"
)

const defaultQuestionSetID = "superbowl-xlix"

type questionSetsFile struct {
	QuestionSets []domain.QuestionSet `yaml:"questionSets"`
}

// questionCatalog returns the built-in question sets plus those from path.
// File sets replace built-ins with the same id.
func questionCatalog(path string) ([]domain.QuestionSet, error) {
	sets := builtinQuestionSets()
	if path == "" {
		return sets, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file questionSetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, set := range file.QuestionSets {
		if err := validateQuestionSet(set); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		replaced := false
		for i := range sets {
			if sets[i].ID == set.ID {
				sets[i] = set
				replaced = true
			}
		}
		if !replaced {
			sets = append(sets, set)
		}
	}
	return sets, nil
}

func catalogByID(sets []domain.QuestionSet) map[string]domain.QuestionSet {
	byID := make(map[string]domain.QuestionSet, len(sets))
	for _, set := range sets {
		byID[set.ID] = set
	}
	return byID
}

func validateQuestionSet(set domain.QuestionSet) error {
	if set.ID == "" {
		return fmt.Errorf("question set without id")
	}
	seen := make(map[string]bool, len(set.Questions))
	for _, q := range set.Questions {
		if q.ID == "" || seen[q.ID] {
			return fmt.Errorf("question set %s: missing or duplicate question id %q", set.ID, q.ID)
		}
		seen[q.ID] = true
		switch q.Type {
		case domain.QuestionCategorical:
			if len(q.Options) == 0 {
				return fmt.Errorf("question set %s: question %s has no options", set.ID, q.ID)
			}
		case domain.QuestionNumeric:
		default:
			return fmt.Errorf("question set %s: question %s has unknown type %q", set.ID, q.ID, q.Type)
		}
		if q.Points < 0 {
			return fmt.Errorf("question set %s: question %s has negative points", set.ID, q.ID)
		}
	}
	if id := set.TiebreakerID; id != "" && !seen[id] {
		return fmt.Errorf("question set %s: tiebreaker %s is not a question", set.ID, id)
	}
	return nil
}

func builtinQuestionSets() []domain.QuestionSet {
	return []domain.QuestionSet{
		{
			ID:           defaultQuestionSetID,
			Title:        "Super Bowl XLIX: Seahawks vs Patriots",
			TiebreakerID: "totalPoints",
			Questions: []domain.Question{
				{ID: "winner", Label: "Who wins the game?", Type: domain.QuestionCategorical, Options: []string{"Seahawks", "Patriots"}, Points: 5},
				{ID: "totalTDs", Label: "Total touchdowns scored", Type: domain.QuestionNumeric, Points: 5},
				{ID: "overtime", Label: "Does the game go to overtime?", Type: domain.QuestionCategorical, Options: []string{"Yes", "No"}, Points: 5},
				{ID: "winningMargin", Label: "Winning margin", Type: domain.QuestionCategorical, Options: []string{"1-7", "8-14", "15 or more"}, Points: 5},
				{ID: "totalFieldGoals", Label: "Total field goals made", Type: domain.QuestionNumeric, Points: 5},
				{ID: "firstHalfLeader", Label: "Who leads at halftime?", Type: domain.QuestionCategorical, Options: []string{"Seahawks", "Patriots", "Tied"}, Points: 5},
				{ID: "totalPoints", Label: "Total points scored (tiebreaker)", Type: domain.QuestionNumeric, Points: 0},
			},
		},
	}
}
