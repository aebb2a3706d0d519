package service

import "errors"

var (
	// ErrPlaceRowInvalid is wrapped by *PlaceRowError.
	ErrPlaceRowInvalid = errors.New("place row is invalid")

	ErrImportEmptyFile    = errors.New("csv file is empty")
	ErrImportMalformed    = errors.New("csv file is malformed")
	ErrImportTooLarge     = errors.New("csv file exceeds maximum size")
	ErrImportUnauthorized = errors.New("editor or admin role required")
	ErrImportPersistence  = errors.New("place import could not be saved")
	ErrImportArchive      = errors.New("csv file could not be archived")
	ErrImportRunNotFound  = errors.New("place import run not found")

	ErrCityNotFound = errors.New("city not found")

	ErrSubmissionNotFound       = errors.New("place submission not found")
	ErrSubmissionForbidden      = errors.New("not allowed to review place submissions")
	ErrSubmissionSelfReview     = errors.New("submitters cannot review their own place submission")
	ErrSubmissionNotPending     = errors.New("place submission is not pending")
	ErrSubmissionReasonRequired = errors.New("a reason is required to reject a place submission")
)
