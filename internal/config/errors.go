package config

import (
	"errors"

	"github.com/nao1215/hoaregistry/internal/export"
)

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while users still get a readable message.
var (
	// ErrInvalidLimit is returned when the entity limit is negative.
	// Use 0 to process every entity.
	ErrInvalidLimit = errors.New("invalid limit: must be zero (all) or positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWait is returned when the browser wait time is negative.
	ErrInvalidWait = errors.New("invalid wait: must be non-negative")

	// ErrInvalidRetries is returned when the attempt count is not positive.
	ErrInvalidRetries = errors.New("invalid retries: must be at least one attempt")

	// ErrUnknownSource is returned when the retrieval source is neither
	// "endpoint" nor "browser".
	ErrUnknownSource = errors.New("unknown source: use endpoint or browser")

	// ErrUnknownFormat is returned when the export format is not one of
	// csv, xlsx or json. It is the exporter's own error, so errors.Is
	// matches whichever layer rejected the format.
	ErrUnknownFormat = export.ErrUnknownFormat

	// ErrEmptyTerm is returned when the search term is empty.
	// Use "%" to match every entity.
	ErrEmptyTerm = errors.New("empty search term: use % to match every entity")
)
