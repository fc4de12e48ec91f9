package retrieve

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/hoaregistry/internal/database"
	"github.com/nao1215/hoaregistry/internal/model"
)

// SnapshotStore persists detail markup between runs.
// *database.RegistryDB implements it.
type SnapshotStore interface {
	FreshSnapshot(ctx context.Context, entityID string, maxAge time.Duration) (*database.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap *database.Snapshot) (bool, error)
}

// CachedSource wraps a Source and stores every fetched detail page as a
// snapshot. With a positive maximum age, snapshots younger than that age
// are returned without contacting the registry.
type CachedSource struct {
	source Source
	store  SnapshotStore
	maxAge time.Duration
	logger *slog.Logger

	mu    sync.RWMutex
	names map[string]string

	hits    atomic.Int64
	misses  atomic.Int64
	changed atomic.Int64
}

// NewCachedSource wraps source with the snapshot store.
// A maxAge of 0 always fetches but still records snapshots.
func NewCachedSource(source Source, store SnapshotStore, maxAge time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{
		source: source,
		store:  store,
		maxAge: maxAge,
		logger: logger,
		names:  make(map[string]string),
	}
}

// FetchEntityList delegates to the wrapped source and remembers entity
// names for the snapshots. The list itself is never cached.
func (c *CachedSource) FetchEntityList(ctx context.Context) ([]model.Entity, error) {
	entities, err := c.source.FetchEntityList(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for _, e := range entities {
		c.names[e.ID] = e.Name
	}
	c.mu.Unlock()

	return entities, nil
}

// FetchDetailMarkup returns a fresh snapshot when one exists, otherwise
// fetches from the wrapped source and stores the result. Store failures
// are logged and never fail the fetch.
func (c *CachedSource) FetchDetailMarkup(ctx context.Context, entityID string) (string, error) {
	if c.maxAge > 0 {
		snap, err := c.store.FreshSnapshot(ctx, entityID, c.maxAge)
		if err != nil {
			c.logger.Warn("snapshot lookup failed", "entity", entityID, "error", err)
		} else if snap != nil {
			c.hits.Add(1)
			c.logger.Debug("snapshot reused", "entity", entityID, "fetched_at", snap.FetchedAt)
			return snap.Markup, nil
		}
	}

	c.misses.Add(1)
	markup, err := c.source.FetchDetailMarkup(ctx, entityID)
	if err != nil {
		return "", err
	}

	c.mu.RLock()
	name := c.names[entityID]
	c.mu.RUnlock()

	changed, err := c.store.SaveSnapshot(ctx, &database.Snapshot{
		EntityID: entityID,
		Name:     name,
		Markup:   markup,
	})
	if err != nil {
		c.logger.Warn("snapshot save failed", "entity", entityID, "error", err)
	} else if changed {
		c.changed.Add(1)
		c.logger.Debug("snapshot changed", "entity", entityID)
	}
	return markup, nil
}

// CacheStats summarizes snapshot usage.
type CacheStats struct {
	// Hits is the number of details served from snapshots.
	Hits int64

	// Misses is the number of details fetched from the wrapped source.
	Misses int64

	// Changed is the number of fetched details whose markup differed from
	// the stored snapshot, including first-time snapshots.
	Changed int64
}

// Stats returns the snapshot usage so far.
func (c *CachedSource) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Changed: c.changed.Load(),
	}
}
