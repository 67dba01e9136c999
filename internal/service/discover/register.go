package discover

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/middleware"
)

// Registrar ties the discovery feed into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	h := NewHandler(NewService(r.appCtx))

	g := api.Group("/users", middleware.RequireAuth(r.appCtx.Tokens))
	g.GET("/discover", h.Feed)
}
