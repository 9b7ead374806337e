package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clintrovert/tricorder/internal/api/rest"
	"github.com/clintrovert/tricorder/internal/cache"
	"github.com/clintrovert/tricorder/internal/config"
	"github.com/clintrovert/tricorder/internal/enrich"
	"github.com/clintrovert/tricorder/internal/github"
	"github.com/clintrovert/tricorder/internal/jira"
	"github.com/clintrovert/tricorder/internal/resolver"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer logger.Sync()

	// Create Jira client
	jiraClient, err := jira.NewClient(cfg.JiraServer, cfg.JiraEmail, cfg.JiraAPIToken, cfg.JiraTimeout, logger)
	if err != nil {
		logger.Fatal("failed to create jira client", zap.Error(err))
	}

	// Create summary cache and resolver
	summaryCache := cache.New(cfg.CacheTTL)
	summaryResolver := resolver.New(jiraClient, summaryCache, logger)

	// Optional collaborators
	var pulls rest.PullRequestLookup
	if cfg.GitHubToken != "" {
		pulls = github.NewClient(cfg.GitHubToken, logger)
	}

	var condenser rest.Condenser
	if cfg.OpenAIAPIKey != "" {
		condenser = enrich.NewEnricher(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
		logger.Info("description enrichment enabled")
	}

	// Create REST API handler
	restHandler := rest.NewHandler(summaryResolver, pulls, condenser, cfg.GitRepoPath, logger)

	// Setup REST API
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		restHandler.RegisterRoutes(r)
	})
	router.Get("/health", restHandler.Health)

	// Start REST server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("starting REST API server",
			zap.String("address", addr),
			zap.Duration("cache_ttl", cfg.CacheTTL),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start REST server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	server.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = lvl
	return zapCfg.Build()
}
