package http

import (
	"net/http"
	"strings"
)

func (a *API) HandleCreateLeague(w http.ResponseWriter, r *http.Request) {
	var req createLeagueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.QuestionSetID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "questionSetId is required"})
		return
	}
	league, manager, err := a.service.CreateLeague(r.Context(), req.Name, req.QuestionSetID, req.DisplayName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createLeagueResponse{League: league, Participant: manager})
}

func (a *API) HandleGetLeague(w http.ResponseWriter, r *http.Request) {
	leagueID := r.PathValue("id")
	league, err := a.service.League(r.Context(), leagueID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	set, err := a.service.QuestionSet(r.Context(), leagueID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leagueResponse{League: league, QuestionSet: set})
}

func (a *API) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := a.service.Join(r.Context(), r.PathValue("id"), req.DisplayName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) HandlePredictions(w http.ResponseWriter, r *http.Request) {
	var req predictionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := a.service.SubmitPredictions(r.Context(), r.PathValue("id"), r.PathValue("pid"), req.Answers)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) HandleResults(w http.ResponseWriter, r *http.Request) {
	var req resultsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lb, err := a.service.RecordResults(r.Context(), r.PathValue("id"), r.Header.Get(managerHeader), req.Results)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (a *API) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := a.service.Leaderboard(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (a *API) HandleProgress(w http.ResponseWriter, r *http.Request) {
	leagueID := r.PathValue("id")
	entries, err := a.service.Progress(r.Context(), leagueID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{LeagueID: leagueID, Entries: entries})
}

func (a *API) HandleExplain(w http.ResponseWriter, r *http.Request) {
	explanation, err := a.service.Explain(r.Context(), r.PathValue("id"), r.PathValue("pid"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, explanation)
}

func (a *API) HandleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	err := a.service.RemoveParticipant(r.Context(), r.PathValue("id"), r.Header.Get(managerHeader), r.PathValue("pid"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
