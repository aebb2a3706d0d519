package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/cache"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/config"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/logging"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/observability"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/minio"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/postgres"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/service"
	transport "github.com/njprem/DogAtlas_APP_BackEnd/internal/transport/http"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/util"
)

func main() {
	cfg := config.Load()

	logger, logCloser := logging.New(cfg.AppEnv, cfg.LogstashTCPAddr)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := postgres.Ping(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("database ping failed")
	}
	logger.Info().Msg("database connection ok")

	var storage ports.ObjectStorage
	if cfg.ArchiveEnabled() {
		client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			logger.Fatal().Err(err).Msg("init minio client")
		}
		store := minio.NewStorage(client, cfg.MinIOPublicURL)
		if err := store.EnsureBucket(ctx, cfg.MinIOBucketImports); err != nil {
			logger.Fatal().Err(err).Str("bucket", cfg.MinIOBucketImports).Msg("ensure import bucket")
		}
		storage = store
	} else {
		logger.Warn().Msg("MINIO_ENDPOINT not set; import files will not be archived")
	}

	cityCache := newCityCache(ctx, cfg, logger)

	cities := service.NewCityService(postgres.NewCityRepo(db), cityCache, cfg.CityCacheTTL, logger)
	placeStore := postgres.NewPlaceStore(db)
	imports := service.NewPlaceImportService(placeStore, postgres.NewPlaceImportRunRepo(db), storage, cities, service.PlaceImportServiceConfig{
		Bucket:       cfg.MinIOBucketImports,
		MaxFileBytes: cfg.PlaceImportMaxBytes,
		PreviewLimit: cfg.PlaceImportPreviewLimit,
	}, logger)
	duplicates := service.NewPlaceDuplicateService(postgres.NewPlaceRepo(db), cities, service.NewDuplicateDetector(cfg.DuplicateRadiusMeters))
	submissions := service.NewPlaceSubmissionService(postgres.NewPlaceSubmissionRepo(db), placeStore, cities, service.PlaceSubmissionServiceConfig{
		SelfReviewAllowed: cfg.SubmissionSelfReviewAllowed,
	}, logger)

	tokens := util.NewJWTManager(cfg.JWTSecret, 24*time.Hour)

	e := transport.NewRouter(cfg.AllowOrigins, logger)
	if cfg.MetricsEnabled {
		transport.RegisterMetrics(e, observability.InitRegistry())
	}
	if err := transport.RegisterSwagger(e, "docs/swagger.yaml"); err != nil {
		logger.Warn().Err(err).Msg("swagger ui disabled")
	}
	transport.RegisterPlaces(e, tokens, cities, duplicates)
	transport.RegisterPlaceImports(e, tokens, imports, cfg.EnablePlaceImports)
	transport.RegisterPlaceSubmissions(e, tokens, submissions)

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("API listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("API stopped")
}

// newCityCache prefers Redis so every replica sees the same city list, and
// falls back to a process-local cache when Redis is unset or unreachable.
func newCityCache(ctx context.Context, cfg config.Config, logger zerolog.Logger) ports.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewMemory()
	}
	redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; using in-memory city cache")
		_ = redisCache.Close()
		return cache.NewMemory()
	}
	return redisCache
}
