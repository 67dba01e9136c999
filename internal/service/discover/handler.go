package discover

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/middleware"
	"github.com/oggyb/swipe-api/internal/utils/normalize"
	"github.com/oggyb/swipe-api/internal/validation"
)

type feedRequest struct {
	Cursor   string  `form:"cursor" json:"cursor"`
	Limit    int     `form:"limit" json:"limit" binding:"omitempty,min=1,max=50"`
	MinAge   *int    `form:"minAge" json:"minAge" binding:"omitempty,min=18,max=120"`
	MaxAge   *int    `form:"maxAge" json:"maxAge" binding:"omitempty,min=18,max=120"`
	Province *string `form:"province" json:"province"`
	City     *string `form:"city" json:"city"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Feed handles GET /api/users/discover.
func (h *Handler) Feed(c *gin.Context) {
	var req feedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		svcErr.Write(c, svcErr.InvalidArgument(validation.Message(err)))
		return
	}

	page, err := h.svc.Feed(c.Request.Context(), middleware.UserID(c), middleware.ShuffleSeed(c), Query{
		Cursor:   req.Cursor,
		Limit:    req.Limit,
		MinAge:   req.MinAge,
		MaxAge:   req.MaxAge,
		Province: normalize.OptionalText(req.Province),
		City:     normalize.OptionalText(req.City),
	})
	if err != nil {
		svcErr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
