package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/job-copilot/internal/config"
	"github.com/jonathan/job-copilot/internal/jobs"
	"github.com/jonathan/job-copilot/internal/llm"
	"github.com/jonathan/job-copilot/internal/observability"
)

// loadApp resolves the configuration and builds the logger for it.
func loadApp() (*config.App, *zap.Logger, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

// newAggregator uses Adzuna when credentials are configured and the local
// catalog otherwise.
func newAggregator(cfg *config.App, logger *zap.Logger) *jobs.Aggregator {
	var provider jobs.Provider
	adzuna, err := jobs.NewAdzunaProvider(jobs.AdzunaConfig{
		AppID:   cfg.AdzunaAppID,
		AppKey:  cfg.AdzunaAppKey,
		Country: cfg.AdzunaCountry,
	})
	if err == nil {
		provider = adzuna
	} else {
		logger.Info("listing provider not configured, serving the local catalog")
	}
	return jobs.NewAggregator(provider, jobs.AggregatorConfig{
		Timeout: time.Duration(cfg.AdzunaTimeout),
		Logger:  logger,
	})
}

// llmConfig maps the app configuration onto the client configuration.
func llmConfig(cfg *config.App) *llm.Config {
	c := llm.DefaultConfigFor(llm.ParseProvider(cfg.LLMProvider)).WithAllModels(cfg.LLMModel)
	if cfg.LLMBaseURL != "" {
		c.BaseURL = cfg.LLMBaseURL
	}
	if cfg.LLMTimeout > 0 {
		c.Timeout = time.Duration(cfg.LLMTimeout)
	}
	return c
}

// newLLMClient returns nil without an API key; callers then use the
// deterministic parsers.
func newLLMClient(ctx context.Context, cfg *config.App, logger *zap.Logger) (llm.Client, error) {
	if cfg.LLMAPIKey == "" {
		logger.Info("no text-understanding API key set, using deterministic parsing")
		return nil, nil
	}
	client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.LLMAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}
