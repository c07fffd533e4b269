// Package http exposes the portal over a single WebSocket endpoint. The
// client authenticates with a bearer token, drives its quiz and arcade
// session through typed messages and receives leaderboard pushes.
package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"dvg-portal/internal/app"
	"dvg-portal/internal/auth"
	"dvg-portal/internal/domain"
)

type WSHandler struct {
	service  *app.PortalService
	auth     *auth.Service
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PortalService, authSvc *auth.Service) *WSHandler {
	return &WSHandler{
		service: service,
		auth:    authSvc,
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

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type joinedPayload struct {
	UserID string             `json:"userId"`
	Stats  domain.UserStats   `json:"stats"`
	Board  domain.Leaderboard `json:"leaderboard"`
}

type syncPayload struct {
	Stats domain.UserStats `json:"stats"`
}

type startQuizPayload struct {
	Subject domain.Subject `json:"subject"`
}

type questionPayload struct {
	Question domain.QuizQuestion `json:"question"`
	Index    int                 `json:"index"`
	Total    int                 `json:"total"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type answerResultPayload struct {
	Correct   bool             `json:"correct"`
	Accepted  bool             `json:"accepted"`
	NewBadges []badgePayload   `json:"newBadges"`
	Stats     domain.UserStats `json:"stats"`
}

type badgePayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type startGamePayload struct {
	SubjectID string `json:"subjectId"`
}

type movePayload struct {
	Dir int `json:"dir"`
}

type tickPayload struct {
	DeltaMS int `json:"deltaMs"`
}

type gameResultPayload struct {
	SubjectID    string `json:"subjectId"`
	Score        int    `json:"score"`
	Accuracy     int    `json:"accuracy"`
	Streak       int    `json:"streak"`
	LevelReached int    `json:"levelReached"`
}

type gameSavedPayload struct {
	Saved bool `json:"saved"`
}

type historyPayload struct {
	GameKey   string `json:"gameKey"`
	SubjectID string `json:"subjectId"`
}

// ServeWS upgrades the request and runs the message loop for one client.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	account, err := h.auth.SessionFromToken(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	stats, err := h.service.LoadSession(r.Context(), account.ID, account.Username, domain.NewUserStats())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	board, _ := h.service.Leaderboard(r.Context())

	updates, cancel, err := h.service.Subscribe(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	defer h.service.EndSession(account.ID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "leaderboard", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joinedPayload{
		UserID: account.ID,
		Stats:  stats,
		Board:  board,
	}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.handle(r, account, inbound, send)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) handle(r *http.Request, account auth.Account, inbound inboundMessage, send chan<- outboundMessage[any]) {
	ctx := r.Context()
	userID := account.ID
	fail := func(message string) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
	}

	switch inbound.Type {
	case "sync":
		var payload syncPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid sync payload")
			return
		}
		stats, err := h.service.LoadSession(ctx, userID, account.Username, payload.Stats)
		if err != nil {
			fail(err.Error())
			return
		}
		board, _ := h.service.Leaderboard(ctx)
		send <- outboundMessage[any]{Type: "joined", Payload: joinedPayload{UserID: userID, Stats: stats, Board: board}}

	case "startQuiz":
		var payload startQuizPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid startQuiz payload")
			return
		}
		if _, err := h.service.StartQuiz(ctx, userID, payload.Subject); err != nil {
			fail(err.Error())
			return
		}
		h.sendQuestion(userID, send)

	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid answer payload")
			return
		}
		outcome, err := h.service.AnswerQuestion(ctx, userID, payload.Option)
		if err != nil {
			fail(err.Error())
			return
		}
		badges := make([]badgePayload, 0, len(outcome.NewBadges))
		for _, badge := range outcome.NewBadges {
			badges = append(badges, badgePayload{
				ID: badge.ID, Name: badge.Name, Description: badge.Description, Icon: badge.Icon,
			})
		}
		send <- outboundMessage[any]{Type: "answerResult", Payload: answerResultPayload{
			Correct:   outcome.Correct,
			Accepted:  outcome.Accepted,
			NewBadges: badges,
			Stats:     outcome.Stats,
		}}

	case "advance":
		result, done, err := h.service.AdvanceQuiz(ctx, userID)
		if err != nil {
			fail(err.Error())
			return
		}
		if done {
			send <- outboundMessage[any]{Type: "quizFinished", Payload: result}
			return
		}
		h.sendQuestion(userID, send)

	case "restart":
		if _, err := h.service.RestartQuiz(ctx, userID); err != nil {
			fail(err.Error())
			return
		}
		h.sendQuestion(userID, send)

	case "startGame":
		var payload startGamePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid startGame payload")
			return
		}
		snapshot, err := h.service.StartArcade(ctx, userID, payload.SubjectID)
		if err != nil {
			fail(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "gameState", Payload: snapshot}

	case "move":
		var payload movePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid move payload")
			return
		}
		if err := h.service.ArcadeMove(userID, payload.Dir); err != nil {
			fail(err.Error())
		}

	case "tick":
		var payload tickPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid tick payload")
			return
		}
		snapshot, err := h.service.ArcadeTick(userID, time.Duration(payload.DeltaMS)*time.Millisecond)
		if err != nil {
			fail(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "gameState", Payload: snapshot}
		if result, done, err := h.service.ArcadeResult(userID); err == nil && done {
			send <- outboundMessage[any]{Type: "gameFinished", Payload: result}
		}

	case "gameResult":
		var payload gameResultPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid gameResult payload")
			return
		}
		saved, err := h.service.SaveGameResult(ctx, userID, payload.SubjectID, domain.GameResult{
			Score:        payload.Score,
			Accuracy:     payload.Accuracy,
			Streak:       payload.Streak,
			LevelReached: payload.LevelReached,
		})
		if err != nil {
			fail(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "gameSaved", Payload: gameSavedPayload{Saved: saved}}

	case "history":
		var payload historyPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				fail("invalid history payload")
				return
			}
		}
		rows, err := h.service.GameHistory(ctx, userID, payload.GameKey, payload.SubjectID)
		if err != nil {
			fail(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "gameHistory", Payload: rows}

	case "dashboard":
		summary, err := h.service.Dashboard(userID)
		if err != nil {
			fail(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "dashboard", Payload: summary}

	default:
		fail("unsupported message type")
	}
}

func (h *WSHandler) sendQuestion(userID string, send chan<- outboundMessage[any]) {
	question, index, total, err := h.service.CurrentQuestion(userID)
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		return
	}
	send <- outboundMessage[any]{Type: "question", Payload: questionPayload{
		Question: question,
		Index:    index,
		Total:    total,
	}}
}
