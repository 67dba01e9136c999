package swipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/middleware"
)

// swipeRequest is validated by the service so field errors keep their
// documented order and wording.
type swipeRequest struct {
	SwipedUserID string `json:"swipedUserId"`
	Direction    string `json:"direction"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Swipe handles POST /api/swipes.
func (h *Handler) Swipe(c *gin.Context) {
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.Write(c, svcErr.InvalidArgument("Invalid request body"))
		return
	}

	res, err := h.svc.RecordSwipe(c.Request.Context(), middleware.UserID(c), req.SwipedUserID, req.Direction)
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
