package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/cache"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/config"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/minio"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/postgres"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/service"
)

// systemActorID identifies imports run from the command line.
var systemActorID = uuid.MustParse("00000000-0000-5000-8000-000000000001")

var errRowsRejected = errors.New("some rows failed validation")

func cliLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func newPreviewCmd() *cobra.Command {
	var (
		strict bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Validate a place CSV without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadTool()
			if limit <= 0 {
				limit = cfg.PlaceImportPreviewLimit
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			svc := service.NewPlaceImportService(nil, nil, nil, nil, service.PlaceImportServiceConfig{
				MaxFileBytes: cfg.PlaceImportMaxBytes,
				PreviewLimit: limit,
			}, zerolog.Nop())
			preview, err := svc.Preview(cmd.Context(), f)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), preview); err != nil {
				return err
			}
			if strict && len(preview.Summary.Errors) > 0 {
				return fmt.Errorf("%w: %d of %d", errRowsRejected, len(preview.Summary.Errors), preview.Summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any row is invalid")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum valid rows to print (default PLACE_IMPORT_PREVIEW_LIMIT)")
	return cmd
}

func newIngestCmd() *cobra.Command {
	var (
		databaseURL string
		noArchive   bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Upsert every valid row of a place CSV in one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.LoadTool()
			logger := cliLogger()

			db, err := openDB(databaseURL, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			var storage ports.ObjectStorage
			if cfg.ArchiveEnabled() && !noArchive {
				client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
				if err != nil {
					return fmt.Errorf("init minio client: %w", err)
				}
				store := minio.NewStorage(client, cfg.MinIOPublicURL)
				if err := store.EnsureBucket(ctx, cfg.MinIOBucketImports); err != nil {
					return err
				}
				storage = store
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			cities := service.NewCityService(postgres.NewCityRepo(db), cityCache(cfg), cfg.CityCacheTTL, logger)
			svc := service.NewPlaceImportService(postgres.NewPlaceStore(db), postgres.NewPlaceImportRunRepo(db), storage, cities, service.PlaceImportServiceConfig{
				Bucket:       cfg.MinIOBucketImports,
				MaxFileBytes: cfg.PlaceImportMaxBytes,
			}, logger)

			result, err := svc.Ingest(ctx, systemActor(), service.PlaceImportUpload{
				Filename: filepath.Base(args[0]),
				Body:     f,
				Size:     info.Size(),
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (default DATABASE_URL)")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "Skip uploading the raw file to object storage")
	return cmd
}

func newDuplicatesCmd() *cobra.Command {
	var (
		databaseURL string
		city        string
		radius      float64
	)

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "List likely duplicate places in one city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadTool()
			if radius <= 0 {
				radius = cfg.DuplicateRadiusMeters
			}

			db, err := openDB(databaseURL, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewPlaceDuplicateService(postgres.NewPlaceRepo(db), postgres.NewCityRepo(db), service.NewDuplicateDetector(radius))
			pairs, err := svc.ScanCity(cmd.Context(), city)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), pairs)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (default DATABASE_URL)")
	cmd.Flags().StringVar(&city, "city", "", "City slug (required)")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Match radius in meters (default DUPLICATE_RADIUS_METERS)")
	_ = cmd.MarkFlagRequired("city")
	return cmd
}

func systemActor() *domain.User {
	return &domain.User{ID: systemActorID, Email: "placectl@dogatlas.local", Roles: []string{domain.RoleAdmin}}
}

func openDB(flagValue string, cfg config.Config) (*sqlx.DB, error) {
	dsn := flagValue
	if dsn == "" {
		dsn = cfg.DatabaseURL
	}
	if dsn == "" {
		return nil, errors.New("--database-url or DATABASE_URL is required")
	}
	return postgres.New(dsn)
}

// cityCache only matters for invalidation: a Redis-backed API shares the
// city list cache with this process.
func cityCache(cfg config.Config) ports.Cache {
	if cfg.RedisAddr == "" {
		return nil
	}
	return cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
