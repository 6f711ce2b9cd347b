package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"turbot/internal/app"
	"turbot/internal/session"
	"turbot/internal/transport/http/response"
)

type ChatHandler struct {
	answers    *app.AnswerService
	sessions   *session.Manager
	historyMax int
}

type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	Response      app.Payload `json:"response"`
	SessionID     string      `json:"session_id"`
	Sources       []string    `json:"sources"`
	ResponseTime  float64     `json:"response_time"`
	EstimatedCost float64     `json:"estimated_cost"`
	Timestamp     time.Time   `json:"timestamp"`
}

func NewChatHandler(answers *app.AnswerService, sessions *session.Manager, historyMax int) *ChatHandler {
	if historyMax <= 0 {
		historyMax = 6
	}
	return &ChatHandler{answers: answers, sessions: sessions, historyMax: historyMax}
}

// Chat runs one conversational turn: append the user message, answer against
// the bounded history, append the structured reply. The answer path cannot
// fail, so the response body is always a well-formed payload.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "message is required")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "message cannot be empty")
		return
	}

	sessionID := h.sessions.GetOrCreate(req.SessionID)
	h.sessions.Append(sessionID, session.RoleUser, message)
	history := h.sessions.History(c.Request.Context(), sessionID, h.historyMax)

	start := time.Now()
	payload, sources := h.answers.Answer(c.Request.Context(), message, history)
	elapsed := time.Since(start).Seconds()

	if encoded, err := json.Marshal(payload); err == nil {
		h.sessions.Append(sessionID, session.RoleAssistant, string(encoded))
	}

	if sources == nil {
		sources = []string{}
	}
	response.OK(c, ChatResponse{
		Response:      payload,
		SessionID:     sessionID,
		Sources:       sources,
		ResponseTime:  elapsed,
		EstimatedCost: app.EstimateCost(len(message), len(payload.Content)),
		Timestamp:     time.Now(),
	})
}
