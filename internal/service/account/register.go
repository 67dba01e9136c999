package account

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/middleware"
)

// Registrar ties the public /auth routes into the HTTP router. The routes
// are throttled per client IP.
type Registrar struct {
	appCtx  *app.AppContext
	limiter *middleware.LimiterStore
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	rl := appCtx.Config.RateLimit
	return &Registrar{
		appCtx:  appCtx,
		limiter: middleware.NewLimiterStore(rl.RPS, rl.Burst, time.Minute),
	}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	h := NewHandler(NewService(r.appCtx))

	g := api.Group("/auth", middleware.RateLimit(r.limiter))
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
}

// Close stops the limiter's cleanup loop.
func (r *Registrar) Close() {
	r.limiter.Stop()
}
