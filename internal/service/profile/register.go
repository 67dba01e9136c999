package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/middleware"
)

// Registrar ties the profile routes into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches /profile routes to the API group
func (r *Registrar) Register(api *gin.RouterGroup) {
	h := NewHandler(NewService(r.appCtx))

	g := api.Group("/profile", middleware.RequireAuth(r.appCtx.Tokens))
	g.GET("/me", h.GetMe)
	g.PUT("/me", h.UpdateMe)
	g.GET("/:userId", h.GetUser)
}
