package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"graphlens/internal/config"
	"graphlens/internal/engine"
	"graphlens/internal/handler"
	"graphlens/internal/hub"
	"graphlens/internal/loader"
	"graphlens/internal/repository/sqlite"
	"graphlens/internal/watcher"
)

func main() {
	// Command line flags override the config file.
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	configPath := flag.String("config", "", "config file path")
	datasetPath := flag.String("dataset", "", "YAML dataset to load and watch")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting graphlens server...")

	cfg, loadedPath, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if loadedPath != "" {
		log.Printf("Config loaded: %s", loadedPath)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *datasetPath != "" {
		cfg.DatasetPath = *datasetPath
	}

	// Initialize dataset store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	// Initialize event bus and SSE hub
	eventBus := engine.NewEventBus()
	sseHub := hub.New(eventBus)
	go sseHub.Run()

	// Initialize the layout engine and start its tick loop
	eng := engine.New(cfg, eventBus)
	engineCtx, engineCancel := context.WithCancel(context.Background())
	defer engineCancel()
	go eng.Run(engineCtx)

	// Load the dataset file and rebuild whenever it changes
	if cfg.DatasetPath != "" {
		loadDataset(eng, cfg.DatasetPath)

		w := watcher.New(cfg.DatasetPath, func() {
			loadDataset(eng, cfg.DatasetPath)
		})
		go func() {
			if err := w.Watch(engineCtx); err != nil && err != context.Canceled {
				log.Printf("Dataset watcher stopped: %v", err)
			}
		}()
	}

	// Setup routes
	mux := http.NewServeMux()
	handler.New(eng, store).Register(mux)
	mux.Handle("GET /events", sseHub)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	engineCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// loadDataset reads the YAML dataset and installs it as the current
// generation. Filter and visibility choices survive the rebuild.
func loadDataset(eng *engine.Engine, path string) {
	ds, err := loader.LoadYAML(path)
	if err != nil {
		log.Printf("Failed to load dataset %s: %v", path, err)
		return
	}
	if err := eng.Load(ds.Nodes, ds.Links, false); err != nil {
		log.Printf("Failed to build graph from %s: %v", path, err)
	}
}
