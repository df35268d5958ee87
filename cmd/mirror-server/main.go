package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hopdb/internal/config"
	"hopdb/internal/mirror"
	"hopdb/pkg/logger"
)

// Serves per-source snapshots so scrapes can run against a local copy.
func main() {
	configPath := flag.String("config", "hopdb.yaml", "configuration file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer lg.Sync()

	if cfg.Logging.Mode == "production" || cfg.Logging.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := mirror.NewStore(cfg.Mirror.DataDir)
	router := mirror.NewRouter(mirror.NewHandler(store, lg))

	srv := &http.Server{
		Addr:    cfg.Mirror.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("mirror-server listening", "addr", cfg.Mirror.Addr, "dir", store.Dir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		lg.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		lg.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("http shutdown error", "error", err)
	}
	lg.Info("mirror-server stopped")
}
