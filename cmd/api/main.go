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
	"github.com/prometheus/client_golang/prometheus"
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

	a, err := app.New(cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	reg := router.NewRegistry(handler.NewEmployeeHandler(a.Service, log.Named("http")))
	r := router.NewAPIEngine(log, router.Options{Limits: cfg.Limits, Origins: cfg.CORS.AllowedOrigins}, a.Service, reg)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("employee api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("employees", baseURL+"/api/employees"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Serve(ctx, srv, log); err != nil {
		log.Error("employee api stopped with error", zap.Error(err))
		return
	}
	log.Info("employee api stopped gracefully")
}
