package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"employee-directory/internal/core/server"
	mdw "employee-directory/internal/transport/http/middleware"
)

// NewAdminEngine serves ops endpoints under /admin/v1 behind one global
// rate limit.
func NewAdminEngine(l *zap.Logger, o Options, p server.DBPinger, reg *Registry) *gin.Engine {
	r := server.NewRouter(l, o.Origins)
	mountOps(r, p, l)

	admin := r.Group("/admin/v1", guards(o, mdw.RateLimit(rate.Limit(o.Limits.RPS), max(1, o.Limits.Burst)))...)
	reg.MountAllAdmin(admin)
	return r
}
