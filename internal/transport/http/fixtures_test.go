package http

import (
	"time"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/app"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/infra/memory"
	"github.com/sirupsen/logrus"
)

func newTestService() *app.LeagueService {
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string]domain.QuestionSet{
		"superbowl": sampleSet(),
	}), time.Minute)
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return app.NewLeagueService(memory.NewLeagueStore(), questions, memory.NewSessionStore(), app.WithLogger(log))
}

func sampleSet() domain.QuestionSet {
	return domain.QuestionSet{
		ID:    "superbowl",
		Title: "Super Bowl",
		Questions: []domain.Question{
			{ID: "winner", Label: "Who wins?", Type: domain.QuestionCategorical, Options: []string{"Seahawks", "Patriots"}, Points: 5},
			{ID: "firstScore", Label: "First score", Type: domain.QuestionCategorical, Options: []string{"Touchdown", "Field Goal", "Safety"}, Points: 5},
			{ID: "totalPoints", Label: "Total points", Type: domain.QuestionNumeric},
		},
	}
}
