package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
)

const submissionColumns = `
	id, status, payload, submitted_by, reviewed_by, review_message, place_id,
	submitted_at, reviewed_at, updated_at`

type PlaceSubmissionRepository struct {
	db *sqlx.DB
}

func NewPlaceSubmissionRepo(db *sqlx.DB) *PlaceSubmissionRepository {
	return &PlaceSubmissionRepository{db: db}
}

func (r *PlaceSubmissionRepository) Create(ctx context.Context, submission *domain.PlaceSubmission) (*domain.PlaceSubmission, error) {
	query := `
		INSERT INTO place_submission (status, payload, submitted_by, submitted_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + submissionColumns
	var created domain.PlaceSubmission
	if err := r.db.GetContext(ctx, &created, query, submission.Status, submission.Payload, submission.SubmittedBy); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PlaceSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PlaceSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM place_submission WHERE id = $1`
	var submission domain.PlaceSubmission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *PlaceSubmissionRepository) List(ctx context.Context, filter domain.PlaceSubmissionFilter) ([]domain.PlaceSubmission, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT ` + submissionColumns + ` FROM place_submission WHERE 1=1`)
	params := make([]any, 0, 4)

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		params = append(params, pq.StringArray(statuses))
		builder.WriteString(fmt.Sprintf(" AND status = ANY($%d)", len(params)))
	}
	if filter.SubmittedBy != nil {
		params = append(params, *filter.SubmittedBy)
		builder.WriteString(fmt.Sprintf(" AND submitted_by = $%d", len(params)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	params = append(params, limit, filter.Offset)
	builder.WriteString(fmt.Sprintf(" ORDER BY submitted_at DESC LIMIT $%d OFFSET $%d", len(params)-1, len(params)))

	var submissions []domain.PlaceSubmission
	if err := r.db.SelectContext(ctx, &submissions, builder.String(), params...); err != nil {
		return nil, err
	}
	return submissions, nil
}

var _ ports.PlaceSubmissionRepository = (*PlaceSubmissionRepository)(nil)
