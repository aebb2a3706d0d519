package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type PlaceImportMode string

const (
	PlaceImportModePreview PlaceImportMode = "preview"
	PlaceImportModeIngest  PlaceImportMode = "ingest"
)

type PlaceImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// PlaceImportErrors is stored as a JSON array next to its import run.
type PlaceImportErrors []PlaceImportError

func (e PlaceImportErrors) Value() (driver.Value, error) {
	if e == nil {
		e = PlaceImportErrors{}
	}
	return json.Marshal(e)
}

func (e *PlaceImportErrors) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*e = PlaceImportErrors{}
		return nil
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return errors.New("place import errors must be []byte")
	}
}

type PlaceImportSummary struct {
	Total  int                `json:"total"`
	Valid  int                `json:"valid"`
	Errors []PlaceImportError `json:"errors"`
}

type PlaceImportPreview struct {
	Summary PlaceImportSummary `json:"summary"`
	Rows    []PlaceCandidate   `json:"rows"`
}

type PlaceIngestResult struct {
	OK            bool               `json:"ok"`
	RunID         *uuid.UUID         `json:"run_id,omitempty"`
	Count         int                `json:"count"`
	Inserted      int                `json:"inserted"`
	Updated       int                `json:"updated"`
	Skipped       int                `json:"skipped"`
	CitiesCreated int                `json:"cities_created"`
	FileKey       string             `json:"file_key,omitempty"`
	Errors        []PlaceImportError `json:"errors"`
}

type PlaceImportRunStatus string

const (
	PlaceImportRunStatusCompleted PlaceImportRunStatus = "completed"
	PlaceImportRunStatusFailed    PlaceImportRunStatus = "failed"
)

// PlaceImportRun is the ledger entry of one ingest. Failed runs keep their
// row errors and the failure, but their write counts stay zero because
// nothing was committed.
type PlaceImportRun struct {
	ID            uuid.UUID            `db:"id" json:"id"`
	UploadedBy    uuid.UUID            `db:"uploaded_by" json:"uploaded_by"`
	Status        PlaceImportRunStatus `db:"status" json:"status"`
	Filename      string               `db:"filename" json:"filename"`
	FileKey       *string              `db:"file_key" json:"file_key,omitempty"`
	TotalRows     int                  `db:"total_rows" json:"total_rows"`
	Inserted      int                  `db:"inserted_rows" json:"inserted"`
	Updated       int                  `db:"updated_rows" json:"updated"`
	Skipped       int                  `db:"skipped_rows" json:"skipped"`
	CitiesCreated int                  `db:"cities_created" json:"cities_created"`
	Failure       *string              `db:"failure" json:"failure,omitempty"`
	RowErrors     PlaceImportErrors    `db:"row_errors" json:"errors"`
	StartedAt     time.Time            `db:"started_at" json:"started_at"`
	CompletedAt   time.Time            `db:"completed_at" json:"completed_at"`
}
