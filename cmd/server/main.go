package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-agent/internal/adapter/handler"
	"task-agent/internal/di"
	"task-agent/internal/infrastructure/env"

	"github.com/go-chi/httplog"
)

func main() {
	cfg, err := di.LoadConfig(env.NewEnvService())
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer container.Close()

	router := handler.NewRouter(container.Handler, httplog.Options{
		JSON:    cfg.Log.Format != "console",
		Concise: true,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			container.Logger.Error("Shutdown failed", "error", err)
		}
	}()

	container.Logger.Info("Server listening", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		container.Logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
