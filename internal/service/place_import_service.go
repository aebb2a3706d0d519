package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/observability"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
)

const (
	defaultPreviewLimit    = 100
	defaultImportFileBytes = 8 * 1024 * 1024
)

type cityInvalidator interface {
	InvalidateCities(ctx context.Context) error
}

type PlaceImportServiceConfig struct {
	Bucket       string
	MaxFileBytes int64
	PreviewLimit int
}

// PlaceImportUpload is a CSV file handed to Ingest. Body is rewound after
// the raw file has been archived, so it must support Seek.
type PlaceImportUpload struct {
	Filename string
	Body     io.ReadSeeker
	Size     int64
}

type PlaceImportService struct {
	store        ports.PlaceStore
	runs         ports.PlaceImportRunRepository
	storage      ports.ObjectStorage
	cities       cityInvalidator
	bucket       string
	maxFileBytes int64
	previewLimit int
	logger       zerolog.Logger
	now          func() time.Time
}

func NewPlaceImportService(store ports.PlaceStore, runs ports.PlaceImportRunRepository, storage ports.ObjectStorage, cities cityInvalidator, cfg PlaceImportServiceConfig, logger zerolog.Logger) *PlaceImportService {
	maxFile := cfg.MaxFileBytes
	if maxFile <= 0 {
		maxFile = defaultImportFileBytes
	}
	limit := cfg.PreviewLimit
	if limit <= 0 {
		limit = defaultPreviewLimit
	}

	return &PlaceImportService{
		store:        store,
		runs:         runs,
		storage:      storage,
		cities:       cities,
		bucket:       cfg.Bucket,
		maxFileBytes: maxFile,
		previewLimit: limit,
		logger:       logger.With().Str("component", "place_import").Logger(),
		now:          time.Now,
	}
}

func (s *PlaceImportService) MaxFileBytes() int64 {
	return s.maxFileBytes
}

// Preview validates every row without writing anything. Row failures are
// reported in the summary; only an unreadable file returns an error.
func (s *PlaceImportService) Preview(ctx context.Context, r io.Reader) (*domain.PlaceImportPreview, error) {
	mode := string(domain.PlaceImportModePreview)

	decoder, err := newPlaceDecoder(limitUpload(r, s.maxFileBytes))
	if err != nil {
		observability.ObserveImportRun(mode, runResult(err))
		return nil, err
	}

	preview := &domain.PlaceImportPreview{
		Summary: domain.PlaceImportSummary{Errors: []domain.PlaceImportError{}},
		Rows:    make([]domain.PlaceCandidate, 0, min(s.previewLimit, 16)),
	}
	for record, err := range decoder.Rows() {
		if err != nil {
			observability.ObserveImportRun(mode, runResult(err))
			return nil, err
		}
		preview.Summary.Total++

		candidate, err := NormalizePlaceRow(record.Values)
		if err != nil {
			preview.Summary.Errors = append(preview.Summary.Errors, domain.PlaceImportError{
				Row:   record.Row,
				Error: err.Error(),
			})
			continue
		}
		preview.Summary.Valid++
		if len(preview.Rows) < s.previewLimit {
			preview.Rows = append(preview.Rows, candidate)
		}
	}

	observability.ObserveImportRun(mode, "ok")
	observability.ObserveImportRows(mode, "valid", preview.Summary.Valid)
	observability.ObserveImportRows(mode, "invalid", len(preview.Summary.Errors))
	s.logger.Info().
		Int("total", preview.Summary.Total).
		Int("valid", preview.Summary.Valid).
		Int("errors", len(preview.Summary.Errors)).
		Msg("place import previewed")
	return preview, nil
}

// Ingest upserts every valid row in one transaction. Invalid rows are
// skipped and counted. actor must hold the editor or admin role; the check
// runs before the upload is touched. Every run past that check is recorded,
// whether it committed or not.
func (s *PlaceImportService) Ingest(ctx context.Context, actor *domain.User, upload PlaceImportUpload) (_ *domain.PlaceIngestResult, err error) {
	mode := string(domain.PlaceImportModeIngest)
	defer func() {
		if err != nil {
			observability.ObserveImportRun(mode, runResult(err))
		}
	}()

	if !actor.IsCurator() {
		return nil, ErrImportUnauthorized
	}

	runID := uuid.New()
	startedAt := s.now()
	result := &domain.PlaceIngestResult{Errors: []domain.PlaceImportError{}}
	defer func() {
		s.recordRun(ctx, runID, actor, upload.Filename, startedAt, result, err)
	}()

	if upload.Body == nil {
		return nil, ErrImportEmptyFile
	}
	if s.maxFileBytes > 0 && upload.Size > s.maxFileBytes {
		return nil, ErrImportTooLarge
	}

	fileKey, err := s.archive(ctx, runID, upload)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil && fileKey != "" {
			s.discardArchive(fileKey)
		}
	}()

	decoder, err := newPlaceDecoder(limitUpload(upload.Body, s.maxFileBytes))
	if err != nil {
		return nil, err
	}

	result.FileKey = fileKey
	err = s.store.WithinTx(ctx, func(tx ports.PlaceTx) error {
		writer := newPlaceWriter(tx)
		for record, err := range decoder.Rows() {
			if err != nil {
				return err
			}
			candidate, err := NormalizePlaceRow(record.Values)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, domain.PlaceImportError{Row: record.Row, Error: err.Error()})
				continue
			}
			_, action, err := writer.upsert(ctx, candidate)
			if err != nil {
				return fmt.Errorf("%w: row %d: %w", ErrImportPersistence, record.Row, err)
			}
			result.Count++
			if action == domain.PlaceUpsertInsert {
				result.Inserted++
			} else {
				result.Updated++
			}
		}
		result.CitiesCreated = writer.citiesCreated
		return nil
	})
	if err != nil {
		if !isImportError(err) {
			err = fmt.Errorf("%w: %w", ErrImportPersistence, err)
		}
		s.logger.Error().Err(err).Str("run_id", runID.String()).Str("file_key", fileKey).Msg("place import rolled back")
		return nil, err
	}
	result.OK = true

	if result.CitiesCreated > 0 && s.cities != nil {
		if err := s.cities.InvalidateCities(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("city cache invalidation failed")
		}
	}

	observability.ObserveImportRun(mode, "ok")
	observability.ObserveImportRows(mode, "inserted", result.Inserted)
	observability.ObserveImportRows(mode, "updated", result.Updated)
	observability.ObserveImportRows(mode, "invalid", result.Skipped)
	s.logger.Info().
		Str("actor", actor.ID.String()).
		Str("run_id", runID.String()).
		Str("file_key", fileKey).
		Int("count", result.Count).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("cities_created", result.CitiesCreated).
		Msg("place import committed")
	return result, nil
}

// GetRun returns the ledger entry written by Ingest.
func (s *PlaceImportService) GetRun(ctx context.Context, id uuid.UUID) (*domain.PlaceImportRun, error) {
	if s.runs == nil {
		return nil, ErrImportRunNotFound
	}
	run, err := s.runs.FindRunByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImportRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// recordRun writes the ledger entry once Ingest has settled. It runs on a
// context detached from the request so a cancelled upload is still
// recorded. A failure to record never changes the ingest outcome.
func (s *PlaceImportService) recordRun(ctx context.Context, id uuid.UUID, actor *domain.User, filename string, startedAt time.Time, result *domain.PlaceIngestResult, ingestErr error) {
	if s.runs == nil {
		return
	}
	run := &domain.PlaceImportRun{
		ID:          id,
		UploadedBy:  actor.ID,
		Status:      domain.PlaceImportRunStatusCompleted,
		Filename:    filename,
		TotalRows:   result.Count + result.Skipped,
		Skipped:     result.Skipped,
		RowErrors:   result.Errors,
		StartedAt:   startedAt,
		CompletedAt: s.now(),
	}
	if ingestErr != nil {
		failure := ingestErr.Error()
		run.Status = domain.PlaceImportRunStatusFailed
		run.Failure = &failure
	} else {
		run.Inserted = result.Inserted
		run.Updated = result.Updated
		run.CitiesCreated = result.CitiesCreated
		if result.FileKey != "" {
			key := result.FileKey
			run.FileKey = &key
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if _, err := s.runs.CreateRun(ctx, run); err != nil {
		s.logger.Warn().Err(err).Str("run_id", id.String()).Msg("could not record place import run")
		return
	}
	if ingestErr == nil {
		result.RunID = &run.ID
	}
}

func (s *PlaceImportService) archive(ctx context.Context, runID uuid.UUID, upload PlaceImportUpload) (string, error) {
	if s.storage == nil || s.bucket == "" {
		return "", nil
	}
	key := buildImportObjectName(s.now(), runID, upload.Filename)
	if _, err := s.storage.Upload(ctx, s.bucket, key, "text/csv", upload.Body, upload.Size); err != nil {
		return "", fmt.Errorf("%w: %w", ErrImportArchive, err)
	}
	if _, err := upload.Body.Seek(0, io.SeekStart); err != nil {
		s.discardArchive(key)
		return "", fmt.Errorf("%w: rewind upload: %w", ErrImportArchive, err)
	}
	return key, nil
}

// discardArchive removes the raw file of a run that did not commit, so the
// bucket only holds files whose rows were applied.
func (s *PlaceImportService) discardArchive(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.storage.Remove(ctx, s.bucket, key); err != nil {
		s.logger.Warn().Err(err).Str("file_key", key).Msg("could not remove archived csv")
	}
}

func buildImportObjectName(at time.Time, runID uuid.UUID, filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		name = "upload.csv"
	}
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("places/imports/%04d/%02d/%s/%s", at.UTC().Year(), int(at.UTC().Month()), runID.String(), name)
}

func isImportError(err error) bool {
	return errors.Is(err, ErrImportMalformed) ||
		errors.Is(err, ErrImportTooLarge) ||
		errors.Is(err, ErrImportEmptyFile) ||
		errors.Is(err, ErrImportPersistence)
}

func runResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrImportUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrImportEmptyFile), errors.Is(err, ErrImportMalformed), errors.Is(err, ErrImportTooLarge):
		return "decode_error"
	case errors.Is(err, ErrImportArchive):
		return "storage_error"
	default:
		return "persistence_error"
	}
}
