package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
)

const importRunColumns = `
	id, uploaded_by, status, filename, file_key, total_rows, inserted_rows,
	updated_rows, skipped_rows, cities_created, failure, row_errors,
	started_at, completed_at`

type PlaceImportRunRepository struct {
	db *sqlx.DB
}

func NewPlaceImportRunRepo(db *sqlx.DB) *PlaceImportRunRepository {
	return &PlaceImportRunRepository{db: db}
}

func (r *PlaceImportRunRepository) CreateRun(ctx context.Context, run *domain.PlaceImportRun) (*domain.PlaceImportRun, error) {
	query := `
		INSERT INTO place_import_run (
			id, uploaded_by, status, filename, file_key, total_rows, inserted_rows,
			updated_rows, skipped_rows, cities_created, failure, row_errors,
			started_at, completed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		RETURNING ` + importRunColumns

	var inserted domain.PlaceImportRun
	if err := r.db.GetContext(ctx, &inserted, query,
		run.ID,
		run.UploadedBy,
		run.Status,
		run.Filename,
		nullString(run.FileKey),
		run.TotalRows,
		run.Inserted,
		run.Updated,
		run.Skipped,
		run.CitiesCreated,
		nullString(run.Failure),
		run.RowErrors,
		run.StartedAt,
		run.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &inserted, nil
}

func (r *PlaceImportRunRepository) FindRunByID(ctx context.Context, id uuid.UUID) (*domain.PlaceImportRun, error) {
	query := `SELECT ` + importRunColumns + ` FROM place_import_run WHERE id = $1`
	var run domain.PlaceImportRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

var _ ports.PlaceImportRunRepository = (*PlaceImportRunRepository)(nil)
