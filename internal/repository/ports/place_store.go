package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
)

// PlaceStore runs city and place writes in one transaction. When fn returns
// an error every write made through tx is rolled back.
type PlaceStore interface {
	WithinTx(ctx context.Context, fn func(tx PlaceTx) error) error
}

// PlaceTx is the write surface available inside a PlaceStore transaction.
// Lookups return sql.ErrNoRows when nothing matches.
type PlaceTx interface {
	// FindCity matches name and country case-insensitively.
	FindCity(ctx context.Context, name, country string) (*domain.City, error)
	CreateCity(ctx context.Context, city *domain.City) (*domain.City, error)
	CitySlugExists(ctx context.Context, slug string) (bool, error)
	// FindPlaceForUpdate locks the row until the transaction ends.
	FindPlaceForUpdate(ctx context.Context, id string) (*domain.Place, error)
	InsertPlace(ctx context.Context, place *domain.Place) (*domain.Place, error)
	UpdatePlace(ctx context.Context, place *domain.Place) (*domain.Place, error)
	LockSubmission(ctx context.Context, id uuid.UUID) (*domain.PlaceSubmission, error)
	UpdateSubmission(ctx context.Context, submission *domain.PlaceSubmission) (*domain.PlaceSubmission, error)
}
