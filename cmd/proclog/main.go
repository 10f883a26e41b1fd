package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"proclog/internal/actor"
	"proclog/internal/config"
	"proclog/internal/observability/logging"
	"proclog/internal/observability/metrics"
	"proclog/internal/service"
	"proclog/internal/store"
	httptransport "proclog/internal/transport/http"
	"proclog/pkg/db"
)

func main() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "proclog",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	cfg := config.Load()

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)
	if err := st.AutoMigrate(context.Background()); err != nil {
		logger.Error("automigrate", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister("proclog")

	svc := service.New(st)
	resolver := actor.NewResolver([]byte(cfg.SigningKey), cfg.Issuer, cfg.Audience, st)
	handler := httptransport.NewRouter(svc, resolver, httptransport.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("proclog service listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
