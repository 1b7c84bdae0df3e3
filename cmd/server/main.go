package main

import (
	"fmt"
	"log"

	"studio-hub/internal/config"
	"studio-hub/internal/database"
	"studio-hub/internal/logging"
	"studio-hub/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := database.Init(cfg, logger); err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	r := server.NewRouter(cfg, logger)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("starting server", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
