package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
)

type PlaceSubmissionServiceConfig struct {
	SelfReviewAllowed bool
}

// PlaceSubmissionService moderates places proposed by members. A submission
// starts pending and is approved or rejected exactly once; approval writes
// the place through the same path as an ingest.
type PlaceSubmissionService struct {
	repo       ports.PlaceSubmissionRepository
	store      ports.PlaceStore
	cities     cityInvalidator
	selfReview bool
	logger     zerolog.Logger
	now        func() time.Time
}

func NewPlaceSubmissionService(repo ports.PlaceSubmissionRepository, store ports.PlaceStore, cities cityInvalidator, cfg PlaceSubmissionServiceConfig, logger zerolog.Logger) *PlaceSubmissionService {
	return &PlaceSubmissionService{
		repo:       repo,
		store:      store,
		cities:     cities,
		selfReview: cfg.SelfReviewAllowed,
		logger:     logger.With().Str("component", "place_submission").Logger(),
		now:        time.Now,
	}
}

func (s *PlaceSubmissionService) Submit(ctx context.Context, actor *domain.User, fields PlaceFields) (*domain.PlaceSubmission, error) {
	if actor == nil {
		return nil, ErrSubmissionForbidden
	}
	candidate, err := fields.Candidate()
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.PlaceSubmission{
		Status:      domain.PlaceSubmissionStatusPending,
		Payload:     domain.PlaceSubmissionPayload(candidate),
		SubmittedBy: actor.ID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("submission_id", created.ID.String()).Str("place_id", candidate.ID).Msg("place submitted")
	return created, nil
}

func (s *PlaceSubmissionService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.PlaceSubmission, error) {
	if actor == nil {
		return nil, ErrSubmissionForbidden
	}
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if !actor.IsCurator() && submission.SubmittedBy != actor.ID {
		return nil, ErrSubmissionNotFound
	}
	return submission, nil
}

// List returns submissions matching filter. Members only ever see their own.
func (s *PlaceSubmissionService) List(ctx context.Context, actor *domain.User, filter domain.PlaceSubmissionFilter) ([]domain.PlaceSubmission, error) {
	if actor == nil {
		return nil, ErrSubmissionForbidden
	}
	if !actor.IsCurator() {
		self := actor.ID
		filter.SubmittedBy = &self
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	submissions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if submissions == nil {
		submissions = []domain.PlaceSubmission{}
	}
	return submissions, nil
}

func (s *PlaceSubmissionService) Approve(ctx context.Context, actor *domain.User, id uuid.UUID, message string) (*domain.PlaceSubmission, error) {
	var (
		reviewed      *domain.PlaceSubmission
		citiesCreated int
	)
	err := s.review(ctx, actor, id, func(tx ports.PlaceTx, submission *domain.PlaceSubmission) error {
		writer := newPlaceWriter(tx)
		place, _, err := writer.upsert(ctx, domain.PlaceCandidate(submission.Payload))
		if err != nil {
			return err
		}
		citiesCreated = writer.citiesCreated

		placeID := place.ID
		submission.Status = domain.PlaceSubmissionStatusApproved
		submission.PlaceID = &placeID
		submission.ReviewMessage = optional(strings.TrimSpace(message))

		reviewed, err = s.stamp(ctx, tx, actor, submission)
		return err
	})
	if err != nil {
		return nil, err
	}

	if citiesCreated > 0 && s.cities != nil {
		if err := s.cities.InvalidateCities(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("city cache invalidation failed")
		}
	}
	s.logger.Info().Str("submission_id", id.String()).Str("reviewer", actor.ID.String()).Msg("place submission approved")
	return reviewed, nil
}

func (s *PlaceSubmissionService) Reject(ctx context.Context, actor *domain.User, id uuid.UUID, message string) (*domain.PlaceSubmission, error) {
	reason := strings.TrimSpace(message)
	if reason == "" {
		return nil, ErrSubmissionReasonRequired
	}

	var reviewed *domain.PlaceSubmission
	err := s.review(ctx, actor, id, func(tx ports.PlaceTx, submission *domain.PlaceSubmission) error {
		submission.Status = domain.PlaceSubmissionStatusRejected
		submission.ReviewMessage = &reason
		var err error
		reviewed, err = s.stamp(ctx, tx, actor, submission)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("submission_id", id.String()).Str("reviewer", actor.ID.String()).Msg("place submission rejected")
	return reviewed, nil
}

// review locks the submission and runs decide only while it is pending and
// the actor may review it.
func (s *PlaceSubmissionService) review(ctx context.Context, actor *domain.User, id uuid.UUID, decide func(tx ports.PlaceTx, submission *domain.PlaceSubmission) error) error {
	if !actor.IsCurator() {
		return ErrSubmissionForbidden
	}
	return s.store.WithinTx(ctx, func(tx ports.PlaceTx) error {
		submission, err := tx.LockSubmission(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if !submission.IsPending() {
			return ErrSubmissionNotPending
		}
		if submission.SubmittedBy == actor.ID && !s.selfReview {
			return ErrSubmissionSelfReview
		}
		return decide(tx, submission)
	})
}

func (s *PlaceSubmissionService) stamp(ctx context.Context, tx ports.PlaceTx, actor *domain.User, submission *domain.PlaceSubmission) (*domain.PlaceSubmission, error) {
	reviewer := actor.ID
	reviewedAt := s.now()
	submission.ReviewedBy = &reviewer
	submission.ReviewedAt = &reviewedAt
	return tx.UpdateSubmission(ctx, submission)
}
