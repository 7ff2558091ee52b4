package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"employee-directory/internal/core/config"
	"employee-directory/internal/core/server"
	mdw "employee-directory/internal/transport/http/middleware"
)

// Options carries what the engines need from configuration.
type Options struct {
	Limits  config.Limits
	Origins []string
}

func (o Options) timeout() time.Duration {
	if o.Limits.RequestTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(o.Limits.RequestTimeoutSec) * time.Second
}

// guards are the per-request limits; the shared chain comes from server.NewRouter.
func guards(o Options, limiter gin.HandlerFunc) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		limiter,
		mdw.ConcurrencyLimit(max(1, o.Limits.MaxConcurrent)),
		mdw.MaxBodyBytes(max(1, o.Limits.MaxBodyBytes)),
		mdw.Timeout(o.timeout()),
	}
}

func mountOps(r *gin.Engine, p server.DBPinger, l *zap.Logger) {
	r.GET("/health", server.Health(p, l))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// NewAPIEngine serves the public employee API under /api.
func NewAPIEngine(l *zap.Logger, o Options, p server.DBPinger, reg *Registry) *gin.Engine {
	r := server.NewRouter(l, o.Origins)
	mountOps(r, p, l)

	api := r.Group("/api", guards(o, mdw.RateLimitPerIP(rate.Limit(o.Limits.RPS), max(1, o.Limits.Burst)))...)
	reg.MountAllAPI(api)
	return r
}
