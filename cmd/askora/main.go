package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/askora-ai/askora/internal/config"
	"github.com/askora-ai/askora/internal/db"
	dbRedis "github.com/askora-ai/askora/internal/db/redis"
	"github.com/askora-ai/askora/internal/domain"
	logpkg "github.com/askora-ai/askora/internal/logger"
	"github.com/askora-ai/askora/internal/metrics"
	catalogrepo "github.com/askora-ai/askora/internal/repository/catalog"
	"github.com/askora-ai/askora/internal/repository/embcache"
	reviewsrepo "github.com/askora-ai/askora/internal/repository/reviews"
	chiTransport "github.com/askora-ai/askora/internal/transport/chi"
	openaiTransport "github.com/askora-ai/askora/internal/transport/openai"
	answeruc "github.com/askora-ai/askora/internal/usecase/answer"
	healthuc "github.com/askora-ai/askora/internal/usecase/health"
	imagesearchuc "github.com/askora-ai/askora/internal/usecase/imagesearch"
	reviewinteluc "github.com/askora-ai/askora/internal/usecase/reviewintel"
	textsearchuc "github.com/askora-ai/askora/internal/usecase/textsearch"
	"github.com/askora-ai/askora/internal/version"
)

func main() {
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting askora API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	// Encoder chain per vectorizer: OpenAI -> Cached -> Instruction
	textEmbedder, textBase := buildEmbedder(cfg, "text", store, logger)
	multiEmbedder, multiBase := buildEmbedder(cfg, "multimodal", store, logger)
	if textEmbedder == nil || multiBase == nil {
		logger.Fatal("Both text and multimodal vectorizers must be configured")
	}

	generator := buildGenerator(cfg, logger)

	catalogRepo := catalogrepo.New(store, cfg.Storage.KeyPrefix, logger)
	reviewsRepo := reviewsrepo.New(store, cfg.Storage.KeyPrefix, logger)

	textSvc := textsearchuc.New(catalogRepo, textEmbedder, logger)
	imageSvc := imagesearchuc.New(catalogRepo, multiEmbedder, multiBase, logger)
	reviewSvc := reviewinteluc.New(
		reviewsRepo, textEmbedder,
		cfg.Retrieval.MaxReviewsPerItem, cfg.Retrieval.EvidenceCandidates,
		logger,
	)
	answerSvc := answeruc.New(textSvc, imageSvc, reviewSvc, generator, logger)
	healthSvc := healthuc.New(store, textBase, logger)

	server := chiTransport.NewServer(
		answerSvc, textSvc, imageSvc, reviewSvc, healthSvc,
		cfg.Auth.APIKeys, logger,
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain for one configured vectorizer.
// Returns the full chain and the base provider (the latter implements
// HealthCheck and EmbedImage). Returns nils when the vectorizer is absent.
func buildEmbedder(
	cfg config.Config,
	vectorizer string,
	store db.Store,
	logger *zap.Logger,
) (domain.Embedder, *openaiTransport.Embedder) {
	vecCfg, ok := cfg.Embedding.Vectorizers[vectorizer]
	if !ok {
		return nil, nil
	}
	provCfg := cfg.Embedding.Providers[vecCfg.Provider]

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   vecCfg.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
	}

	// Instruction prefix outermost so the cache key includes it.
	if vecCfg.QueryInstruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, vecCfg.QueryInstruction)
	}

	logger.Info("Embedder created",
		zap.String("vectorizer", vectorizer),
		zap.String("provider", vecCfg.Provider),
		zap.String("model", vecCfg.Model),
		zap.Int("dimensions", vecCfg.Dimensions),
	)

	return embedder, base
}

func buildGenerator(cfg config.Config, logger *zap.Logger) domain.Generator {
	provCfg := cfg.Embedding.Providers[cfg.Generation.Provider]

	return openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      provCfg.APIKey,
		BaseURL:     provCfg.BaseURL,
		Model:       cfg.Generation.Model,
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
		Timeout:     time.Duration(cfg.Generation.TimeoutSec) * time.Second,
		Logger:      logger,
	})
}
