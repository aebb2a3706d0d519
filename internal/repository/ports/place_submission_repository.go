package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
)

type PlaceSubmissionRepository interface {
	Create(ctx context.Context, submission *domain.PlaceSubmission) (*domain.PlaceSubmission, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PlaceSubmission, error)
	List(ctx context.Context, filter domain.PlaceSubmissionFilter) ([]domain.PlaceSubmission, error)
}
