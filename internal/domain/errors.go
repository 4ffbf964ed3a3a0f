package domain

import "errors"

var (
	// ErrNotFound is returned when GitHub reports that a repository or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRepository is returned for repository references that are not "owner/name".
	ErrInvalidRepository = errors.New("invalid repository reference")
	// ErrUnknownMetric is returned when a metric name has no renderer.
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrInvalidDate is returned for date bounds that are not YYYY-MM-DD or are reversed.
	ErrInvalidDate = errors.New("invalid date")
)
