package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
)

type PlaceStore struct {
	db *sqlx.DB
}

func NewPlaceStore(db *sqlx.DB) *PlaceStore {
	return &PlaceStore{db: db}
}

func (s *PlaceStore) WithinTx(ctx context.Context, fn func(tx ports.PlaceTx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&placeTx{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type placeTx struct {
	tx *sqlx.Tx
}

func (t *placeTx) FindCity(ctx context.Context, name, country string) (*domain.City, error) {
	const query = `
		SELECT id, name, country, slug, latitude, longitude, active, created_at, updated_at
		FROM city
		WHERE lower(name) = lower($1) AND lower(country) = lower($2)
	`
	var city domain.City
	if err := t.tx.GetContext(ctx, &city, query, name, country); err != nil {
		return nil, err
	}
	return &city, nil
}

func (t *placeTx) CreateCity(ctx context.Context, city *domain.City) (*domain.City, error) {
	const query = `
		INSERT INTO city (name, country, slug, latitude, longitude, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, name, country, slug, latitude, longitude, active, created_at, updated_at
	`
	var created domain.City
	err := t.tx.GetContext(ctx, &created, query,
		city.Name, city.Country, city.Slug, nullFloat(city.Latitude), nullFloat(city.Longitude), city.Active)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (t *placeTx) CitySlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := t.tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM city WHERE slug = $1)`, slug); err != nil {
		return false, err
	}
	return exists, nil
}

func (t *placeTx) FindPlaceForUpdate(ctx context.Context, id string) (*domain.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM place WHERE id = $1 FOR UPDATE`
	var row placeRow
	if err := t.tx.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	place := row.toDomain()
	return &place, nil
}

func (t *placeTx) InsertPlace(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	query := `
		INSERT INTO place (
			id, city_id, slug, name, type, city, region, country, latitude, longitude,
			short_description, full_description, image_url, gallery_urls, dog_friendly_level,
			amenities, rules, website_url, contact_phone, contact_email, price_range,
			opening_hours, rating, tags, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, NOW(), NOW()
		)
		RETURNING ` + placeColumns
	var row placeRow
	if err := t.tx.GetContext(ctx, &row, query, placeArgs(place)...); err != nil {
		return nil, err
	}
	inserted := row.toDomain()
	return &inserted, nil
}

func (t *placeTx) UpdatePlace(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	query := `
		UPDATE place
		SET city_id = $2, slug = $3, name = $4, type = $5, city = $6, region = $7,
		    country = $8, latitude = $9, longitude = $10, short_description = $11,
		    full_description = $12, image_url = $13, gallery_urls = $14,
		    dog_friendly_level = $15, amenities = $16, rules = $17, website_url = $18,
		    contact_phone = $19, contact_email = $20, price_range = $21,
		    opening_hours = $22, rating = $23, tags = $24, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + placeColumns
	var row placeRow
	if err := t.tx.GetContext(ctx, &row, query, placeArgs(place)...); err != nil {
		return nil, err
	}
	updated := row.toDomain()
	return &updated, nil
}

func (t *placeTx) LockSubmission(ctx context.Context, id uuid.UUID) (*domain.PlaceSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM place_submission WHERE id = $1 FOR UPDATE`
	var submission domain.PlaceSubmission
	if err := t.tx.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (t *placeTx) UpdateSubmission(ctx context.Context, submission *domain.PlaceSubmission) (*domain.PlaceSubmission, error) {
	query := `
		UPDATE place_submission
		SET status = $2, reviewed_by = $3, review_message = $4, place_id = $5,
		    reviewed_at = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + submissionColumns
	var updated domain.PlaceSubmission
	err := t.tx.GetContext(ctx, &updated, query,
		submission.ID,
		submission.Status,
		submission.ReviewedBy,
		nullString(submission.ReviewMessage),
		nullString(submission.PlaceID),
		submission.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

var _ ports.PlaceStore = (*PlaceStore)(nil)
