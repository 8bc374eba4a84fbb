package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/job-copilot/internal/assist"
	"github.com/jonathan/job-copilot/internal/config"
	"github.com/jonathan/job-copilot/internal/db"
	"github.com/jonathan/job-copilot/internal/db/memory"
	"github.com/jonathan/job-copilot/internal/document"
	"github.com/jonathan/job-copilot/internal/profile"
	"github.com/jonathan/job-copilot/internal/resume"
	"github.com/jonathan/job-copilot/internal/server"
	"github.com/jonathan/job-copilot/internal/tracker"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the HTTP API. With DATABASE_URL set the schema is migrated and
PostgreSQL is used; without it data lives in memory for local development.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

// appStore is everything the API persists.
type appStore interface {
	server.UserStore
	profile.Store
	tracker.Store
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to load JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to load password config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := newLLMClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	timeout := time.Duration(cfg.LLMTimeout)
	profiles := profile.NewService(store)
	srv := server.New(server.Config{
		Port:           cfg.Port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	}, server.Services{
		Jobs:         newAggregator(cfg, logger),
		Applications: tracker.NewService(store),
		Profiles:     profiles,
		Resumes:      resume.NewPipeline(document.NewExtractor(), resume.NewParser(client, resume.Options{Timeout: timeout})),
		Roles:        assist.NewRoleDetector(client, assist.Options{Timeout: timeout}),
		Forms:        assist.NewFormFiller(client, assist.Options{Timeout: timeout}),
		Users:        server.NewUserService(store, profiles, passwordConfig),
		Tokens:       server.NewJWTService(jwtConfig),
	})

	return srv.Run(ctx)
}

// openStore connects to PostgreSQL when DATABASE_URL is set and falls back
// to the in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.App, logger *zap.Logger) (appStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, data is kept in memory and lost on exit")
		return memory.New(), func() {}, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database ready")
	return database, database.Close, nil
}
