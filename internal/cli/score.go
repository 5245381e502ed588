package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/app"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/scoring"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// leagueFile is an offline league: a question set (inline or by id), the
// actual results and every participant's predictions. JSON files parse too.
type leagueFile struct {
	QuestionSetID string              `yaml:"questionSetId"`
	QuestionSet   *domain.QuestionSet `yaml:"questionSet"`
	Results       domain.Answers      `yaml:"results"`
	Participants  []struct {
		Name        string         `yaml:"name"`
		Predictions domain.Answers `yaml:"predictions"`
	} `yaml:"participants"`
}

// NewScoreCmd ranks a league file without running the server.
func NewScoreCmd() *cobra.Command {
	var (
		explain   bool
		questions string
	)
	cmd := &cobra.Command{
		Use:   "score <league-file>",
		Short: "Score a league file and print the leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.OutOrStdout(), args[0], questions, explain)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print the per-question trace of every score")
	cmd.Flags().StringVar(&questions, "questions", "", "YAML file with extra question sets")
	return cmd
}

func runScore(w io.Writer, path, questionsPath string, explain bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file leagueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	set, err := resolveQuestionSet(file, questionsPath)
	if err != nil {
		return err
	}
	results, err := app.NormalizeAnswers(set, file.Results)
	if err != nil {
		return fmt.Errorf("results: %w", err)
	}
	league := domain.League{ID: path, Name: set.Title, QuestionSetID: set.ID, Results: results}

	participants := make([]domain.Participant, 0, len(file.Participants))
	for i, entry := range file.Participants {
		predictions, err := app.NormalizeAnswers(set, entry.Predictions)
		if err != nil {
			return fmt.Errorf("participant %q: %w", entry.Name, err)
		}
		p := domain.Participant{
			ID:          fmt.Sprintf("p%d", i+1),
			LeagueID:    league.ID,
			DisplayName: strings.TrimSpace(entry.Name),
			Predictions: predictions,
		}
		app.Rescore(&p, league, set)
		participants = append(participants, p)
	}

	lb := app.BuildLeaderboard(league, set, participants, time.Now())
	if err := printLeaderboard(w, lb); err != nil {
		return err
	}
	if !explain {
		return nil
	}

	byID := make(map[string]domain.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	var actual domain.Answers
	if len(league.Results) > 0 {
		actual = league.Results
	}
	for _, entry := range lb.Entries {
		score, lines := scoring.ExplainScore(byID[entry.ParticipantID].Predictions, actual, set.Questions)
		fmt.Fprintf(w, "\n%s (%d/%d)\n", entry.DisplayName, score, lb.MaxScore)
		for _, line := range lines {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}

func resolveQuestionSet(file leagueFile, questionsPath string) (domain.QuestionSet, error) {
	if file.QuestionSet != nil {
		return *file.QuestionSet, validateQuestionSet(*file.QuestionSet)
	}
	sets, err := questionCatalog(questionsPath)
	if err != nil {
		return domain.QuestionSet{}, err
	}
	id := file.QuestionSetID
	if id == "" {
		id = defaultQuestionSetID
	}
	set, ok := catalogByID(sets)[id]
	if !ok {
		return domain.QuestionSet{}, fmt.Errorf("%w: %s", domain.ErrQuestionSetNotFound, id)
	}
	return set, nil
}

func printLeaderboard(w io.Writer, lb domain.Leaderboard) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLACE\tNAME\tSCORE\tTIEBREAK\tCOMPLETE")
	for _, e := range lb.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%d%%\n",
			humanize.Ordinal(e.Position), e.DisplayName, e.Score, lb.MaxScore, e.TiebreakDistance, e.Completion)
	}
	return tw.Flush()
}
