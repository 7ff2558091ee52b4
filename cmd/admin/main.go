package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"employee-directory/internal/app"
	"employee-directory/internal/core/config"
	"employee-directory/internal/core/server"
	"employee-directory/internal/transport/http/handler"
	"employee-directory/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, flush := app.NewLogger(cfg.Log)
	defer flush()
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	// storage metrics belong to the api process
	a, err := app.New(cfg, log, nil)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	reg := router.NewRegistry(handler.NewStatsHandler(a.Service, log.Named("http")))
	r := router.NewAdminEngine(log, router.Options{Limits: cfg.Limits, Origins: cfg.CORS.AllowedOrigins}, a.Service, reg)

	addr := server.Addr(cfg.Admin.Host, cfg.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("admin_v1", "http://"+addr+"/admin/v1"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Serve(ctx, srv, log); err != nil {
		log.Error("admin api stopped with error", zap.Error(err))
		return
	}
	log.Info("admin api stopped gracefully")
}
