package http

import "github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"

type createLeagueRequest struct {
	Name          string `json:"name"`
	QuestionSetID string `json:"questionSetId"`
	DisplayName   string `json:"displayName"`
}

type createLeagueResponse struct {
	League      domain.League      `json:"league"`
	Participant domain.Participant `json:"participant"`
}

type leagueResponse struct {
	League      domain.League      `json:"league"`
	QuestionSet domain.QuestionSet `json:"questionSet"`
}

type joinRequest struct {
	DisplayName string `json:"displayName"`
}

type predictionsRequest struct {
	Answers domain.Answers `json:"answers"`
}

type resultsRequest struct {
	Results domain.Answers `json:"results"`
}

type progressResponse struct {
	LeagueID string                 `json:"leagueId"`
	Entries  []domain.ProgressEntry `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
}
