package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pagegate/pagegate/internal/config"
	"github.com/pagegate/pagegate/internal/media"
	"github.com/pagegate/pagegate/internal/server"
	"github.com/pagegate/pagegate/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.Media.DataPath, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	mediaStore, err := media.NewStore(cfg.Media.DataPath + "/media.db")
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}
	defer mediaStore.Close()

	client := store.NewHTTPClient(store.HTTPConfig{
		BaseURL:  cfg.Store.Address,
		Database: cfg.Store.Database,
		Username: cfg.Store.Username,
		Password: cfg.Store.Password,
		Timeout:  time.Duration(cfg.Store.TimeoutSeconds) * time.Second,
	})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, _, err := server.Start(ctx, cfg, client, mediaStore)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("PageGate running at http://%s", addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second) // Give in-flight requests time to finish
}
