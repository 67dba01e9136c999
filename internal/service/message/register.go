package message

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/middleware"
)

type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	h := NewHandler(NewService(r.appCtx))

	g := api.Group("/messages", middleware.RequireAuth(r.appCtx.Tokens))
	g.POST("", h.Send)
	g.GET("/:matchId", h.List)
	g.POST("/:matchId/read", h.MarkRead)
}
