package pipeline

import "errors"

// ErrEntityList is returned when the entity list cannot be retrieved.
// Nothing is exported when it occurs.
var ErrEntityList = errors.New("failed to retrieve entity list")
