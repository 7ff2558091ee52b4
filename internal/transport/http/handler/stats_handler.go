package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"employee-directory/internal/service"
	"employee-directory/internal/transport/http/ez"
)

type StatsService interface {
	Stats(ctx context.Context) (*service.Stats, error)
}

// StatsHandler serves directory totals on the admin server.
type StatsHandler struct {
	svc StatsService
	log *zap.Logger
}

func NewStatsHandler(s StatsService, l *zap.Logger) *StatsHandler {
	return &StatsHandler{svc: s, log: l}
}

func (h *StatsHandler) MountAdmin(admin *gin.RouterGroup) {
	ez.RegisterAction(ez.New(admin, h.log), ez.Action[struct{}, *service.Stats]{
		Method: http.MethodGet, Path: "/stats", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Stats, error) {
			return h.svc.Stats(c.Request.Context())
		},
	})
}
