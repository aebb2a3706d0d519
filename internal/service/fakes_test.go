package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
)

// memoryPlaceStore copies its tables at the start of each transaction and
// only swaps them in when fn succeeds, which is enough to observe rollback.
type memoryPlaceStore struct {
	mu          sync.Mutex
	cities      map[uuid.UUID]domain.City
	places      map[string]domain.Place
	submissions map[uuid.UUID]domain.PlaceSubmission
	runs        map[uuid.UUID]domain.PlaceImportRun

	failInsertID string
	failCityName string
	txCount      int
	lockedPlaces []string
}

func newMemoryPlaceStore() *memoryPlaceStore {
	return &memoryPlaceStore{
		cities:      map[uuid.UUID]domain.City{},
		places:      map[string]domain.Place{},
		submissions: map[uuid.UUID]domain.PlaceSubmission{},
		runs:        map[uuid.UUID]domain.PlaceImportRun{},
	}
}

func (s *memoryPlaceStore) WithinTx(ctx context.Context, fn func(tx ports.PlaceTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++

	tx := &memoryPlaceTx{store: s, cities: map[uuid.UUID]domain.City{}, places: map[string]domain.Place{}, submissions: map[uuid.UUID]domain.PlaceSubmission{}}
	for k, v := range s.cities {
		tx.cities[k] = v
	}
	for k, v := range s.places {
		tx.places[k] = v
	}
	for k, v := range s.submissions {
		tx.submissions[k] = v
	}

	if err := fn(tx); err != nil {
		return err
	}
	s.cities, s.places, s.submissions = tx.cities, tx.places, tx.submissions
	return nil
}

func (s *memoryPlaceStore) cityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cities)
}

func (s *memoryPlaceStore) place(id string) (domain.Place, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[id]
	return p, ok
}

func (s *memoryPlaceStore) placeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.places)
}

type memoryPlaceTx struct {
	store       *memoryPlaceStore
	cities      map[uuid.UUID]domain.City
	places      map[string]domain.Place
	submissions map[uuid.UUID]domain.PlaceSubmission
}

func (t *memoryPlaceTx) FindCity(_ context.Context, name, country string) (*domain.City, error) {
	for _, c := range t.cities {
		if strings.EqualFold(c.Name, name) && strings.EqualFold(c.Country, country) {
			city := c
			return &city, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (t *memoryPlaceTx) CreateCity(_ context.Context, city *domain.City) (*domain.City, error) {
	if t.store.failCityName != "" && strings.EqualFold(city.Name, t.store.failCityName) {
		return nil, errors.New("insert city: connection reset")
	}
	for _, c := range t.cities {
		if c.Slug == city.Slug {
			return nil, errors.New("duplicate key value violates unique constraint \"city_slug_key\"")
		}
	}
	created := *city
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	t.cities[created.ID] = created
	return &created, nil
}

func (t *memoryPlaceTx) CitySlugExists(_ context.Context, slug string) (bool, error) {
	for _, c := range t.cities {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryPlaceTx) FindPlaceForUpdate(_ context.Context, id string) (*domain.Place, error) {
	t.store.lockedPlaces = append(t.store.lockedPlaces, id)
	p, ok := t.places[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (t *memoryPlaceTx) InsertPlace(_ context.Context, place *domain.Place) (*domain.Place, error) {
	if place.ID == t.store.failInsertID {
		return nil, errors.New("insert place: check constraint violated")
	}
	if _, exists := t.places[place.ID]; exists {
		return nil, errors.New("duplicate key value violates unique constraint \"place_pkey\"")
	}
	inserted := *place
	inserted.CreatedAt = time.Now()
	inserted.UpdatedAt = inserted.CreatedAt
	t.places[place.ID] = inserted
	return &inserted, nil
}

func (t *memoryPlaceTx) UpdatePlace(_ context.Context, place *domain.Place) (*domain.Place, error) {
	existing, ok := t.places[place.ID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	updated := *place
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	t.places[place.ID] = updated
	return &updated, nil
}

func (t *memoryPlaceTx) LockSubmission(_ context.Context, id uuid.UUID) (*domain.PlaceSubmission, error) {
	sub, ok := t.submissions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &sub, nil
}

func (t *memoryPlaceTx) UpdateSubmission(_ context.Context, submission *domain.PlaceSubmission) (*domain.PlaceSubmission, error) {
	if _, ok := t.submissions[submission.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	updated := *submission
	updated.UpdatedAt = time.Now()
	t.submissions[submission.ID] = updated
	return &updated, nil
}

// memorySubmissionRepo shares the submissions table of a memoryPlaceStore.
type memorySubmissionRepo struct {
	store *memoryPlaceStore
}

func (r *memorySubmissionRepo) Create(_ context.Context, submission *domain.PlaceSubmission) (*domain.PlaceSubmission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	created := *submission
	created.ID = uuid.New()
	created.SubmittedAt = time.Now()
	created.UpdatedAt = created.SubmittedAt
	r.store.submissions[created.ID] = created
	return &created, nil
}

func (r *memorySubmissionRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.PlaceSubmission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sub, ok := r.store.submissions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &sub, nil
}

func (r *memorySubmissionRepo) List(_ context.Context, filter domain.PlaceSubmissionFilter) ([]domain.PlaceSubmission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.PlaceSubmission
	for _, sub := range r.store.submissions {
		if filter.SubmittedBy != nil && sub.SubmittedBy != *filter.SubmittedBy {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, st := range filter.Statuses {
				if st == sub.Status {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, sub)
	}
	return out, nil
}

// memoryRunRepo keeps import runs outside any transaction, like the
// ledger table does.
type memoryRunRepo struct {
	store   *memoryPlaceStore
	failErr error
}

func (r *memoryRunRepo) CreateRun(_ context.Context, run *domain.PlaceImportRun) (*domain.PlaceImportRun, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.runs[run.ID] = *run
	created := *run
	return &created, nil
}

func (r *memoryRunRepo) FindRunByID(_ context.Context, id uuid.UUID) (*domain.PlaceImportRun, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	run, ok := r.store.runs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &run, nil
}

func (s *memoryPlaceStore) importRuns() []domain.PlaceImportRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PlaceImportRun, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	return out
}

type recordingStorage struct {
	uploads  map[string][]byte
	removed  []string
	failWith error
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{uploads: map[string][]byte{}}
}

func (s *recordingStorage) Upload(_ context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.uploads[bucket+"/"+objectName] = data
	return "https://cdn.dogatlas.test/" + bucket + "/" + objectName, nil
}

func (s *recordingStorage) Remove(_ context.Context, bucket, objectName string) error {
	s.removed = append(s.removed, bucket+"/"+objectName)
	delete(s.uploads, bucket+"/"+objectName)
	return nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCities(context.Context) error {
	c.calls++
	return nil
}

// failingReader fails the test if anything reads from it.
type failingReader struct {
	reads int
}

func (f *failingReader) Read([]byte) (int, error) {
	f.reads++
	return 0, errors.New("reader must not be touched")
}

func (f *failingReader) Seek(int64, int) (int64, error) {
	f.reads++
	return 0, errors.New("reader must not be touched")
}

func csvUpload(name, body string) PlaceImportUpload {
	return PlaceImportUpload{Filename: name, Body: bytes.NewReader([]byte(body)), Size: int64(len(body))}
}

var (
	editor = &domain.User{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Email: "editor@dogatlas.test", Roles: []string{domain.RoleEditor}}
	admin  = &domain.User{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Email: "admin@dogatlas.test", Roles: []string{domain.RoleAdmin}}
	member = &domain.User{ID: uuid.MustParse("33333333-3333-3333-3333-333333333333"), Email: "member@dogatlas.test", Roles: []string{domain.RoleMember}}
)
