package main

import (
	"context"
	"time"

	appconfig "github.com/rishuramani/RC/internal/config"
	"github.com/rishuramani/RC/internal/generator"
	"github.com/rishuramani/RC/internal/handlers"
	"github.com/rishuramani/RC/internal/inspire"
	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/internal/orchestrator"
	"github.com/rishuramani/RC/internal/pipeline"
	"github.com/rishuramani/RC/internal/platforms/linkedin"
	"github.com/rishuramani/RC/internal/platforms/twitter"
	"github.com/rishuramani/RC/internal/publish"
	"github.com/rishuramani/RC/internal/scanner"
	"github.com/rishuramani/RC/pkg/config"
	"github.com/rishuramani/RC/pkg/database"
	"github.com/rishuramani/RC/pkg/llm"
	"github.com/rishuramani/RC/pkg/logging"
	"github.com/rishuramani/RC/pkg/monitoring"
	"github.com/rishuramani/RC/pkg/server"
	"github.com/rishuramani/RC/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("curator")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Curator (Marketing Content API)")

	cfg := appconfig.LoadConfig()

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer db.Close()

	if err := knowledge.EnsureSchema(context.Background(), db); err != nil {
		logger.WithError(err).Fatal("Failed to ensure database schema")
	}
	store := knowledge.NewStore(db)

	// LLM backend
	provider, err := llm.NewProvider(llm.Config{
		Provider:  cfg.LLMProvider,
		Model:     cfg.LLMModel,
		APIKey:    cfg.LLMAPIKey,
		APIURL:    cfg.LLMAPIURL,
		MaxTokens: cfg.LLMMaxTokens,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create LLM provider")
	}

	// Platform clients
	twitterClient := twitter.NewClient(twitter.Config{
		BearerToken: cfg.TwitterBearerToken,
		MockMode:    cfg.MockMode,
	}, logger)
	linkedinClient := linkedin.NewClient(linkedin.Config{
		AccessToken: cfg.LinkedInAccessToken,
		AuthorURN:   cfg.LinkedInAuthorURN,
		MockMode:    cfg.MockMode,
	}, logger)
	publisher := publish.New(twitterClient, linkedinClient, logger)

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("curator", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("curator", version.Version, version.GitCommit)

	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"LLM_API_KEY":  cfg.LLMAPIKey,
	}))

	generated, published, generationDuration := metricsCollector.CreateContentMetrics()

	// Domain components
	gen := generator.New(provider, store, logger)
	orch := orchestrator.New(provider, store, logger)
	pipe := pipeline.New(gen, orch, store, logger).WithMetrics(pipeline.Metrics{
		Generated:          generated,
		Published:          published,
		GenerationDuration: generationDuration,
	})
	scan := scanner.New(provider, store, twitterClient, linkedinClient, scanner.Config{
		Queries:         cfg.ScanQueries,
		Accounts:        cfg.ScanAccounts,
		LinkedInQueries: cfg.ScanLinkedInQueries,
		MaxResults:      cfg.ScanMaxResults,
	}, logger)

	handlers.Init(handlers.Deps{
		Store:        store,
		Pipeline:     pipe,
		Orchestrator: orch,
		Scanner:      scan,
		Publisher:    publisher,
		Fetcher:      inspire.NewFetcher(logger),
		Provider:     provider,
		Logger:       logger,
	})

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "curator", healthChecker, metricsCollector)
	handlers.RegisterRoutes(router)

	// Scheduled scans run in the background when Twitter is configured
	if cfg.TwitterConfigured() && cfg.ScanInterval > 0 {
		go runScheduledScans(scan, cfg.ScanInterval, logger)
	} else {
		logger.Info("Scheduled scans disabled")
	}

	serverConfig := server.DefaultConfig("curator", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
}

func runScheduledScans(scan *scanner.Scanner, interval time.Duration, logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		digest, err := scan.Scan(ctx, "scheduled", false)
		cancel()
		if err != nil {
			logger.WithError(err).Error("Scheduled scan failed")
			continue
		}
		logger.WithField("digest_id", digest.ID).Info("Scheduled scan complete")
	}
}
