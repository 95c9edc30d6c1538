package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lk2023060901/model-search-assistant/internal/conf"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/injector"
	"github.com/lk2023060901/model-search-assistant/internal/pkg/logger"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "config file path (empty: defaults and environment only)")
)

func main() {
	flag.Parse()

	path := *configFile
	if _, err := os.Stat(path); path != "" && os.IsNotExist(err) {
		path = ""
	}

	// Load configuration
	config, err := conf.LoadConfig(path)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize global logger
	if err := logger.InitGlobal(&config.Log); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	if path == "" {
		log.Info("no config file found, using defaults and environment", zap.String("path", *configFile))
	} else {
		log.Info("config loaded successfully", zap.String("path", path))
	}

	app, cleanup, err := injector.InitializeApp(config, log)
	if err != nil {
		log.Fatal("failed to initialize application", zap.Error(err))
	}
	defer cleanup()

	go func() {
		if err := app.HTTPServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.HTTPServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
