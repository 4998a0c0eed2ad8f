package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wordquiz/internal/app"
	"wordquiz/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
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

// quizPayload starts a round: mode is the difficulty, choices the option
// count or "hell".
type quizPayload struct {
	Mode    string `json:"mode"`
	Choices string `json:"choices"`
}

type answerPayload struct {
	RoundID string `json:"roundId"`
	Option  string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	channelID := r.URL.Query().Get("channelId")
	userID := r.URL.Query().Get("userId")
	displayName := r.URL.Query().Get("name")
	if channelID == "" || userID == "" || displayName == "" {
		http.Error(w, "missing channelId, userId, or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := h.logger.With(zap.String("channel_id", channelID), zap.String("user_id", userID))

	joined, err := h.service.Join(r.Context(), channelID, userID, displayName)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}

	renders, cancel, err := h.service.Subscribe(r.Context(), channelID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}
	defer cancel()
	defer h.service.Leave(r.Context(), channelID, userID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	rendersDone := make(chan struct{})

	// single writer: gorilla connections do not allow concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Error("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(rendersDone)
		for {
			select {
			case render, ok := <-renders:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "render", Payload: render}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joined}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "quiz":
			var payload quizPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					send <- errorMessage("invalid quiz payload")
					continue
				}
			}
			// the round's renders reach this connection through the subscription
			if _, err := h.service.StartRound(r.Context(), channelID, payload.Mode, payload.Choices); err != nil {
				log.Warn("start round failed", zap.String("mode", payload.Mode), zap.String("choices", payload.Choices), zap.Error(err))
				send <- errorMessage(app.UserMessage(err))
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid answer payload")
				continue
			}
			outcome, err := h.service.SubmitAnswer(r.Context(), payload.RoundID, payload.Option, domain.Responder{
				UserID:      userID,
				DisplayName: displayName,
			})
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: outcome}
		case "pickword":
			entry, err := h.service.PickWord(r.Context())
			if err != nil {
				if !errors.Is(err, domain.ErrLexiconEmpty) {
					log.Error("pick word failed", zap.Error(err))
				}
				send <- errorMessage(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "word", Payload: entry}
		default:
			send <- errorMessage("unsupported message type")
		}
	}

	close(closeSignals)
	<-rendersDone
	close(send)
	<-writerDone
}
