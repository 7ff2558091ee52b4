package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"employee-directory/internal/core/config"
	"employee-directory/internal/core/database"
	"employee-directory/internal/core/logger"
	"employee-directory/internal/core/metrics"
	"employee-directory/internal/repo"
	"employee-directory/internal/service"
)

// App holds what both binaries build before mounting their routes.
type App struct {
	Log     *zap.Logger
	DB      *gorm.DB
	Service *service.EmployeeService

	closers []func()
}

func NewLogger(c config.Log) (*zap.Logger, func()) {
	if c.File.Enable {
		return logger.NewWithRotate(c.Level, c.JSON, logger.FileRotate{
			Filename:   c.File.Filename,
			MaxSizeMB:  c.File.MaxSizeMB,
			MaxBackups: c.File.MaxBackups,
			MaxAgeDays: c.File.MaxAgeDays,
			Compress:   c.File.Compress,
		})
	}
	return logger.New(c.Level, c.JSON)
}

// New opens storage, bootstraps the schema and builds the service.
// reg may be nil to skip storage metrics.
func New(cfg *config.Config, l *zap.Logger, reg prometheus.Registerer) (*App, error) {
	a := &App{Log: l}
	a.closers = append(a.closers, logger.RedirectStdLog(l, zapcore.InfoLevel))

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		LogWriter:          logger.ToWriter(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() {
		if err := database.Close(db); err != nil {
			l.Warn("close database", zap.Error(err))
		}
	})
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.NewMetrics(reg)
	}
	r := repo.NewEmployeeRepo(db, m)
	if err := r.Migrate(context.Background()); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	a.Service = service.NewEmployeeService(r, l.Named("employee"))
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
