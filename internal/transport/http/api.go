package http

import (
	"net/http"
	"time"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/app"
	"github.com/sirupsen/logrus"
)

// API serves the REST surface of the league service.
type API struct {
	service *app.LeagueService
}

func NewAPI(service *app.LeagueService) *API {
	return &API{service: service}
}

// NewRouter wires the REST routes, the websocket endpoint and health check.
func NewRouter(service *app.LeagueService, ws *WSHandler) http.Handler {
	api := NewAPI(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /leagues", api.HandleCreateLeague)
	mux.HandleFunc("GET /leagues/{id}", api.HandleGetLeague)
	mux.HandleFunc("POST /leagues/{id}/participants", api.HandleJoin)
	mux.HandleFunc("PUT /leagues/{id}/participants/{pid}/predictions", api.HandlePredictions)
	mux.HandleFunc("DELETE /leagues/{id}/participants/{pid}", api.HandleRemoveParticipant)
	mux.HandleFunc("GET /leagues/{id}/participants/{pid}/explain", api.HandleExplain)
	mux.HandleFunc("PUT /leagues/{id}/results", api.HandleResults)
	mux.HandleFunc("GET /leagues/{id}/leaderboard", api.HandleLeaderboard)
	mux.HandleFunc("GET /leagues/{id}/progress", api.HandleProgress)
	if ws != nil {
		mux.HandleFunc("GET /ws", ws.ServeWS)
	}
	return withRequestLog(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// websocket upgrades need the raw writer to hijack the connection
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("http request")
	})
}
