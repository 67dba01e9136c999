package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(c *gin.Context) {
	var in SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		svcErr.Write(c, svcErr.InvalidArgument(validation.Message(err)))
		return
	}
	sess, err := h.svc.Signup(c.Request.Context(), in)
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		svcErr.Write(c, svcErr.InvalidArgument("Invalid request body"))
		return
	}
	sess, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}
