package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/app"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/debounce"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/scoring"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type WSHandler struct {
	service    *app.LeagueService
	draftDelay time.Duration
	upgrader   websocket.Upgrader
}

func NewWSHandler(service *app.LeagueService, draftDelay time.Duration) *WSHandler {
	return &WSHandler{
		service:    service,
		draftDelay: draftDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answersPayload struct {
	Answers domain.Answers `json:"answers"`
}

type savedPayload struct {
	Participant domain.Participant `json:"participant"`
	Completion  int                `json:"completion"`
}

type completePayload struct {
	ParticipantID string `json:"participantId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// conn holds the state of one websocket client. completed is tracked per
// connection so each client is congratulated once.
type conn struct {
	ctx           context.Context
	service       *app.LeagueService
	leagueID      string
	participantID string
	set           domain.QuestionSet

	send       chan outboundMessage[any]
	writerDone chan struct{}
	sendMu     sync.Mutex
	closed     bool

	mu        sync.Mutex
	pending   domain.Answers
	completed bool
}

// ServeWS upgrades HTTP requests to websockets and wires them into the league use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("leagueId")
	participantID := r.URL.Query().Get("participantId")
	if leagueID == "" || participantID == "" {
		http.Error(w, "missing leagueId or participantId", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	participant, err := h.service.Participant(ctx, leagueID, participantID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	set, err := h.service.QuestionSet(ctx, leagueID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithField("error", err).Warn("ws upgrade failed")
		return
	}
	defer ws.Close()

	updates, cancel, err := h.service.Subscribe(ctx, leagueID)
	if err != nil {
		_ = ws.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	c := &conn{
		ctx:           ctx,
		service:       h.service,
		leagueID:      leagueID,
		participantID: participantID,
		set:           set,
		send:          make(chan outboundMessage[any], 16),
		writerDone:    make(chan struct{}),
		completed:     scoring.CompletionPercentage(participant.Predictions, set.Questions) == 100,
	}
	log := logrus.WithFields(logrus.Fields{"league": leagueID, "participant": participantID})

	go func() {
		defer close(c.writerDone)
		for msg := range c.send {
			if err := ws.WriteJSON(msg); err != nil {
				log.WithField("error", err).Debug("ws write error")
				return
			}
		}
	}()

	closeSignals := make(chan struct{})
	updatesDone := make(chan struct{})
	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				c.emit("leaderboard", update)
			case <-closeSignals:
				return
			}
		}
	}()

	saver := debounce.New(h.draftDelay, c.save)

	for {
		var inbound inboundMessage
		if err := ws.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "draft", "save":
			var payload answersPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.emit("error", errorPayload{Message: "invalid answers payload"})
				continue
			}
			// an invalid message is rejected alone so it cannot sink drafts queued with it
			answers, err := app.NormalizeAnswers(c.set, payload.Answers)
			if err != nil {
				c.emit("error", errorPayload{Message: err.Error()})
				continue
			}
			c.queue(answers)
			saver.Trigger()
			if inbound.Type == "save" {
				saver.Flush()
			}
		default:
			c.emit("error", errorPayload{Message: "unsupported message type"})
		}
	}

	// keep drafts typed right before disconnecting
	saver.Flush()
	saver.Stop()

	close(closeSignals)
	<-updatesDone
	c.sendMu.Lock()
	c.closed = true
	close(c.send)
	c.sendMu.Unlock()
	<-c.writerDone
}

func (c *conn) queue(answers domain.Answers) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		c.pending = domain.Answers{}
	}
	for id, v := range answers {
		c.pending[id] = v
	}
}

// save submits queued answers and reports the outcome to the client.
func (c *conn) save() {
	c.mu.Lock()
	answers := c.pending
	c.pending = nil
	c.mu.Unlock()
	if len(answers) == 0 {
		return
	}

	p, err := c.service.SubmitPredictions(c.ctx, c.leagueID, c.participantID, answers)
	if err != nil {
		c.emit("error", errorPayload{Message: err.Error()})
		return
	}
	completion := scoring.CompletionPercentage(p.Predictions, c.set.Questions)
	c.emit("saved", savedPayload{Participant: p, Completion: completion})

	c.mu.Lock()
	first := completion == 100 && !c.completed
	if first {
		c.completed = true
	}
	c.mu.Unlock()
	if first {
		c.emit("complete", completePayload{ParticipantID: c.participantID})
	}
}

func (c *conn) emit(msgType string, payload any) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- outboundMessage[any]{Type: msgType, Payload: payload}:
	case <-c.writerDone:
	}
}
