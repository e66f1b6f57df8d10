// Alif orchestrator server - builds sentence-review sessions and scores
// review submissions against the acquisition/long-term memory schedulers.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/houshuang/alif/pkg/api"
	"github.com/houshuang/alif/pkg/cleanup"
	"github.com/houshuang/alif/pkg/config"
	"github.com/houshuang/alif/pkg/database"
	"github.com/houshuang/alif/pkg/generator"
	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/leech"
	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
	"github.com/houshuang/alif/pkg/review"
	"github.com/houshuang/alif/pkg/session"
	"github.com/houshuang/alif/pkg/worker"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: Could not load %s file: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("Failed to initialize configuration: %v", err)
	}

	dbClient, err := database.NewClient(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Printf("Error closing database client: %v", err)
		}
	}()
	log.Println("Connected to PostgreSQL database, migrations applied")

	db := dbClient.DB()

	graph, err := lemma.LoadGraph(ctx, db)
	if err != nil {
		log.Fatalf("Failed to load lemma graph: %v", err)
	}
	log.Printf("Loaded %d canonical lemmas", len(graph.AllCanonical()))

	memoryStore := memory.NewPostgresStore(db)
	poolStore := pool.NewPostgresStore(db, graph)
	grammarStore := grammar.NewPostgresStore(db)
	reviewLog := review.NewPostgresLog(db)
	ratingLog := review.NewPostgresRatingLog(db)

	sentenceGenerator := generator.NewHTTPGenerator(cfg.Generator.BaseURL, cfg.Generator.APIKey, cfg.Generator.Timeout)
	reviewer := generator.NewHTTPQualityReviewer(cfg.Generator.BaseURL, cfg.Generator.APIKey, cfg.Generator.Timeout)

	builder := session.NewBuilder(session.Dependencies{
		Graph:        graph,
		MemoryStore:  memoryStore,
		PoolStore:    poolStore,
		GrammarStore: grammarStore,
		RatingLog:    ratingLog,
		Generator:    sentenceGenerator,
		Reviewer:     reviewer,
	}, cfg.Session)

	// Shared across the Review Engine's suspension writes and the leech
	// scanner's reintroduction writes so the two never race on the same
	// lemma's memory.State.
	memoryLocks := memory.NewLockTable(0)

	engine := review.NewEngine(review.Dependencies{
		Graph:        graph,
		MemoryStore:  memoryStore,
		Locks:        memoryLocks,
		PoolStore:    poolStore,
		GrammarStore: grammarStore,
		Log:          reviewLog,
	}, cfg.Review)

	warmPool := worker.NewPool(worker.Dependencies{
		Graph:        graph,
		MemoryStore:  memoryStore,
		PoolStore:    poolStore,
		GrammarStore: grammarStore,
		Generator:    sentenceGenerator,
		Reviewer:     reviewer,
	}, cfg.Worker)

	workerCtx, stopWorker := context.WithCancel(ctx)
	warmPool.Start(workerCtx)

	cleanupSvc := cleanup.NewService(cfg.Retention, poolStore, reviewLog)
	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	cleanupSvc.Start(cleanupCtx)

	leechScanner := leech.NewReintroductionScanner(memoryStore, memoryLocks, cfg.Review.Leech, cfg.Review.Leech.ScanInterval)
	leechCtx, stopLeechScan := context.WithCancel(ctx)
	leechScanner.Start(leechCtx)

	server := api.NewServer(cfg.System, db, builder, engine)

	go func() {
		log.Printf("HTTP server listening on %s", cfg.System.APIListenAddr)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	stopWorker()
	warmPool.Stop()
	stopCleanup()
	cleanupSvc.Stop()
	stopLeechScan()
	leechScanner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
}
