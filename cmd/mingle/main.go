package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"mingle/internal/config"
	"mingle/internal/logger"
	"mingle/internal/router"
	"mingle/internal/setup"
)

func main() {
	configFolder := flag.String("config", "", "folder with public.yaml and private.yaml")
	templatesDir := flag.String("templates", "templates", "folder with html templates")
	flag.Parse()

	cfg, err := config.Load(*configFolder)
	if err != nil {
		logger.Log.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.Setup(cfg, *templatesDir)
	if err != nil {
		logger.Log.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := deps.Storage.Bootstrap(ctx, cfg.Public.Auth.UsernamesUnique()); err != nil {
		cancel()
		logger.Log.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}
	cancel()

	r := router.New(deps.Handler, deps.Auth, cfg.Public)

	addr := fmt.Sprintf(":%d", cfg.Public.Port)
	logger.Log.Info("listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
