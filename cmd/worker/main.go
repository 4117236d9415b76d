package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postflow/configs"
	job "github.com/maheshrc27/postflow/internal/jobs"
	"github.com/maheshrc27/postflow/internal/platform"
	"github.com/maheshrc27/postflow/internal/queue"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/pkg/utils"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	slog.SetDefault(utils.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	vault, err := utils.NewVault(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Invalid ENCRYPTION_KEY: %v", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// one connection per concurrent publish plus one for the claim
	db.SetMaxOpenConns(cfg.Worker.Concurrency + 1)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := repository.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
	}

	registry := platform.DefaultRegistry(cfg.Platforms)

	postRepo := repository.NewPostRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	staleJob := job.NewStalePostingJob(postRepo, cfg.Worker.StaleAfter)

	c := cron.New()
	if err := c.AddFunc(cfg.Worker.StaleCheck, func() { staleJob.ReportStalePosts() }); err != nil {
		log.Fatalf("Invalid WORKER_STALE_CHECK schedule: %v", err)
	}
	c.Start()
	defer c.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := queue.NewQueue(cfg.Worker, postRepo, accountRepo, vault, registry)

	slog.Info("worker process ready", "config", cfg.Worker.String(), "platforms", registry.Platforms())
	worker.Run(ctx)
	slog.Info("worker stopped")
}
