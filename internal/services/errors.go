package services

import "errors"

// Sentinel errors returned by services; handlers map these to HTTP
// status codes.
var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrStorageFailure   = errors.New("storage failure")
)
