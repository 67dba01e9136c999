package match

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/middleware"
	"github.com/oggyb/swipe-api/internal/validation"
)

type listRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/matches.
func (h *Handler) List(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		svcErr.Write(c, svcErr.InvalidArgument(validation.Message(err)))
		return
	}

	var token *string
	if req.Cursor != "" {
		token = &req.Cursor
	}
	res, err := h.svc.List(c.Request.Context(), middleware.UserID(c), token, req.Limit)
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Unviewed handles GET /api/matches/unviewed.
func (h *Handler) Unviewed(c *gin.Context) {
	views, err := h.svc.ListUnviewed(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": views})
}

// UnviewedCount handles GET /api/matches/unviewed/count.
func (h *Handler) UnviewedCount(c *gin.Context) {
	n, err := h.svc.UnviewedCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// View handles POST /api/matches/:matchId/view.
func (h *Handler) View(c *gin.Context) {
	if err := h.svc.MarkViewed(c.Request.Context(), middleware.UserID(c), c.Param("matchId")); err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete handles DELETE /api/matches/:matchId.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Unmatch(c.Request.Context(), middleware.UserID(c), c.Param("matchId")); err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
