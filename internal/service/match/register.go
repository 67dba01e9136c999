package match

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/middleware"
)

// Registrar ties the match routes into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	h := NewHandler(NewService(r.appCtx))

	g := api.Group("/matches", middleware.RequireAuth(r.appCtx.Tokens))
	g.GET("", h.List)
	g.GET("/unviewed", h.Unviewed)
	g.GET("/unviewed/count", h.UnviewedCount)
	g.POST("/:matchId/view", h.View)
	g.DELETE("/:matchId", h.Delete)
}
