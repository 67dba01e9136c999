package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/middleware"
	"github.com/oggyb/swipe-api/internal/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetMe handles GET /api/profile/me.
func (h *Handler) GetMe(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UpdateMe handles PUT /api/profile/me.
func (h *Handler) UpdateMe(c *gin.Context) {
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		svcErr.Write(c, svcErr.InvalidArgument(validation.Message(err)))
		return
	}
	u, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// GetUser handles GET /api/profile/:userId.
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
