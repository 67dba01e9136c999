package message

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/middleware"
)

type sendRequest struct {
	MatchID string `json:"matchId"`
	Content string `json:"content"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Send handles POST /api/messages.
func (h *Handler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.Write(c, svcErr.InvalidArgument("Invalid request body"))
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), middleware.UserID(c), req.MatchID, req.Content)
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// List handles GET /api/messages/:matchId.
func (h *Handler) List(c *gin.Context) {
	msgs, err := h.svc.List(c.Request.Context(), middleware.UserID(c), c.Param("matchId"))
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkRead handles POST /api/messages/:matchId/read.
func (h *Handler) MarkRead(c *gin.Context) {
	n, err := h.svc.MarkRead(c.Request.Context(), middleware.UserID(c), c.Param("matchId"))
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
