package biz

import "errors"

var (
	// ErrCollectionNotFound indicates no script collection exists with the
	// requested id.
	ErrCollectionNotFound = errors.New("script collection not found")

	// ErrPersistenceDisabled indicates the deployment runs without a
	// database and record lookups are unavailable.
	ErrPersistenceDisabled = errors.New("persistence is not configured")
)
