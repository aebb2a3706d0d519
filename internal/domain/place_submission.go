package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type PlaceSubmissionStatus string

const (
	PlaceSubmissionStatusPending  PlaceSubmissionStatus = "pending"
	PlaceSubmissionStatusApproved PlaceSubmissionStatus = "approved"
	PlaceSubmissionStatusRejected PlaceSubmissionStatus = "rejected"
)

func (s PlaceSubmissionStatus) Valid() bool {
	switch s {
	case PlaceSubmissionStatusPending, PlaceSubmissionStatusApproved, PlaceSubmissionStatusRejected:
		return true
	}
	return false
}

// PlaceSubmissionPayload is the candidate a member proposed, stored as JSON
// until a reviewer decides on it.
type PlaceSubmissionPayload PlaceCandidate

func (p PlaceSubmissionPayload) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *PlaceSubmissionPayload) Scan(value any) error {
	if value == nil {
		*p = PlaceSubmissionPayload{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("place submission payload must be []byte")
	}
}

type PlaceSubmission struct {
	ID            uuid.UUID              `db:"id" json:"id"`
	Status        PlaceSubmissionStatus  `db:"status" json:"status"`
	Payload       PlaceSubmissionPayload `db:"payload" json:"place"`
	SubmittedBy   uuid.UUID              `db:"submitted_by" json:"submitted_by"`
	ReviewedBy    *uuid.UUID             `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewMessage *string                `db:"review_message" json:"review_message,omitempty"`
	PlaceID       *string                `db:"place_id" json:"place_id,omitempty"`
	SubmittedAt   time.Time              `db:"submitted_at" json:"submitted_at"`
	ReviewedAt    *time.Time             `db:"reviewed_at" json:"reviewed_at,omitempty"`
	UpdatedAt     time.Time              `db:"updated_at" json:"updated_at"`
}

func (s PlaceSubmission) IsPending() bool {
	return s.Status == PlaceSubmissionStatusPending
}

type PlaceSubmissionFilter struct {
	Statuses    []PlaceSubmissionStatus
	SubmittedBy *uuid.UUID
	Limit       int
	Offset      int
}
