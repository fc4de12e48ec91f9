package retrieve

import (
	"context"

	"github.com/nao1215/hoaregistry/internal/model"
)

// Source lists registry entities and fetches their detail markup.
// Implementations must be safe for concurrent FetchDetailMarkup calls.
type Source interface {
	// FetchEntityList returns the entities matching the source's search
	// term, in registry order.
	FetchEntityList(ctx context.Context) ([]model.Entity, error)

	// FetchDetailMarkup returns the detail page markup of one entity.
	// Blank markup is reported as ErrEmptyMarkup.
	FetchDetailMarkup(ctx context.Context, entityID string) (string, error)
}
