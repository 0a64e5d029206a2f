package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamweld/streamweld/internal/config"
	"github.com/streamweld/streamweld/internal/engine"
	"github.com/streamweld/streamweld/pkg/logger"

	// Register sink engine adapters.
	_ "github.com/streamweld/streamweld/internal/database/clickhouse"
	_ "github.com/streamweld/streamweld/internal/database/hive"
	_ "github.com/streamweld/streamweld/internal/database/mysql"
)

var version = "dev"

func main() {
	listenAddr := flag.String("listen", "", "HTTP listen address (overrides environment)")
	masterAddr := flag.String("master", "", "default cluster master address (overrides environment)")
	flag.Parse()

	log := logger.New("manager", version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *masterAddr != "" {
		cfg.DefaultMasterAddr = *masterAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.NewEngine(cfg)
	eng.SetLogger(log)

	if err := eng.Start(ctx); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := eng.Stop(shutdownCtx); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}
	log.Info("Manager stopped")
}
