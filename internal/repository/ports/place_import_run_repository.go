package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
)

type PlaceImportRunRepository interface {
	CreateRun(ctx context.Context, run *domain.PlaceImportRun) (*domain.PlaceImportRun, error)
	FindRunByID(ctx context.Context, id uuid.UUID) (*domain.PlaceImportRun, error)
}
