package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"turbot/internal/session"
	"turbot/internal/transport/http/response"
)

type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Get(c *gin.Context) {
	view, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, "session not found")
		return
	}
	response.OK(c, gin.H{
		"session_id":    view.ID,
		"created_at":    view.CreatedAt,
		"messages":      view.Messages,
		"message_count": len(view.Messages),
	})
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.sessions.Delete(id) {
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, "session not found")
		return
	}
	response.OK(c, gin.H{"session_id": id, "deleted": true})
}
