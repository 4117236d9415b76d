package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/api/handlers"
	"github.com/maheshrc27/postflow/internal/api/middleware"
	"github.com/maheshrc27/postflow/internal/platform"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/maheshrc27/postflow/pkg/utils"
)

func main() {
	var issueFor string
	var tokenTTL time.Duration
	flag.StringVar(&issueFor, "issue-token", "", "print a JWT for this subject signed with JWT_SECRET and exit")
	flag.DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "lifetime of a token printed by -issue-token")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	slog.SetDefault(utils.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat))

	if issueFor != "" {
		if err := issueToken(os.Stdout, cfg.JWTSecret, issueFor, tokenTTL); err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.AdminToken == "" && cfg.JWTSecret == "" {
		log.Fatalf("Refusing to start: set ADMIN_TOKEN or JWT_SECRET")
	}

	vault, err := utils.NewVault(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Invalid ENCRYPTION_KEY: %v", err)
	}
	if !vault.Enabled() {
		slog.Warn("ENCRYPTION_KEY not set, credentials are stored in plaintext")
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

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

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "path", c.Path(), "error", err)
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       3600,
	}))

	registry := platform.DefaultRegistry(cfg.Platforms)

	entityRepo := repository.NewEntityRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	postRepo := repository.NewPostRepository(db)

	entityService := service.NewEntityService(entityRepo)
	accountService := service.NewAccountService(accountRepo, entityRepo, vault, registry)
	postService := service.NewPostService(postRepo, accountRepo, entityRepo, registry)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	handlers.Mount(api,
		handlers.NewEntityHandler(entityService),
		handlers.NewAccountHandler(accountService),
		handlers.NewPostHandler(postService),
		handlers.NewPlatformHandler(registry),
	)

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	slog.Info("server is running", "addr", cfg.Addr, "platforms", registry.Platforms())

	gracefulShutdown(app, db)
}

// issueToken lets operators mint API tokens without a running server.
func issueToken(w io.Writer, secret, subject string, ttl time.Duration) error {
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if ttl <= 0 {
		return errors.New("token ttl must be positive")
	}
	token, err := utils.GenerateToken(secret, subject, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
