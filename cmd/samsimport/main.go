package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/triple-tgg/sams-sub000/internal/config"
	"github.com/triple-tgg/sams-sub000/internal/server"
)

var (
	port         = flag.Int("port", 0, "HTTP port (overrides config.toml)")
	devMode      = flag.Bool("dev", false, "development mode")
	dataDir      = flag.String("dataDir", "", "data directory (overrides config.toml)")
	referenceURL = flag.String("referenceURL", "", "reference service base URL (overrides config.toml)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  SAMS - Flight Schedule Import Service")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *referenceURL != "" {
		cfg.Reference.BaseURL = *referenceURL
	}

	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("Failed to create data directory: %v", err)
	} else {
		fmt.Printf("Data directory: %s\n", dir)
	}
	fmt.Printf("Reference service: %s\n", cfg.Reference.BaseURL)

	srv := server.NewServer(cfg)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		fmt.Printf("Listening on port %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	fmt.Println("\nPress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	if err := srv.Close(); err != nil {
		log.Printf("Close failed: %v", err)
	}
}
