package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/hoaregistry/internal/model"
	"github.com/nao1215/hoaregistry/internal/retrieve"
)

// TestBatchProcessor tests concurrent detail retrieval.
func TestBatchProcessor(t *testing.T) {
	t.Parallel()

	t.Run("maintains result order", func(t *testing.T) {
		t.Parallel()

		src := newRegistry(10)
		delays := make(map[string]time.Duration, len(src.entities))
		for i, e := range src.entities {
			delays[e.ID] = time.Duration(len(src.entities)-i) * 2 * time.Millisecond
		}
		// Later entities finish first.
		src.onFetch = func(id string) {
			time.Sleep(delays[id])
		}

		result := NewBatchProcessor(src, WithConcurrency(5)).Process(context.Background(), src.entities)
		if len(result.Records) != 10 {
			t.Fatalf("expected 10 records, got %d", len(result.Records))
		}
		for i, rec := range result.Records {
			if rec == nil {
				t.Fatalf("record %d is nil", i)
			}
			if rec.Fixed.EntityID != src.entities[i].ID {
				t.Errorf("record %d: expected entity %s, got %s", i, src.entities[i].ID, rec.Fixed.EntityID)
			}
		}
		if result.Interrupted {
			t.Error("expected batch not to be interrupted")
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		src := newRegistry(12)
		src.onFetch = func(string) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
		}

		NewBatchProcessor(src, WithConcurrency(3)).Process(context.Background(), src.entities)
		if peak.Load() > 3 {
			t.Errorf("expected at most 3 concurrent fetches, got %d", peak.Load())
		}
	})

	t.Run("failures become skipped entities", func(t *testing.T) {
		t.Parallel()

		src := newRegistry(4)
		src.fetchErr["102"] = errFetch
		src.markup["104"] = "   "

		result := NewBatchProcessor(src).Process(context.Background(), src.entities)
		if len(result.Skipped) != 2 {
			t.Fatalf("expected 2 skipped entities, got %d", len(result.Skipped))
		}
		if result.Skipped[0].ID != "102" || result.Skipped[0].Reason != errFetch.Error() {
			t.Errorf("unexpected first skipped entity: %+v", result.Skipped[0])
		}
		if result.Skipped[1].ID != "104" || result.Skipped[1].Reason != reasonNoContent {
			t.Errorf("unexpected second skipped entity: %+v", result.Skipped[1])
		}
		if result.Records[1] != nil || result.Records[3] != nil {
			t.Error("expected nil records for skipped entities")
		}
		if result.Records[0] == nil || result.Records[2] == nil {
			t.Error("expected records for successful entities")
		}
	})

	t.Run("reports progress for every entity", func(t *testing.T) {
		t.Parallel()

		var (
			mu    sync.Mutex
			calls [][2]int
		)
		src := newRegistry(7)
		src.fetchErr["103"] = retrieve.ErrEmptyMarkup

		NewBatchProcessor(src, WithProgress(func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, [2]int{done, total})
		})).Process(context.Background(), src.entities)

		if len(calls) != 7 {
			t.Fatalf("expected 7 progress calls, got %d", len(calls))
		}
		for i, c := range calls {
			if c[0] != i+1 || c[1] != 7 {
				t.Errorf("call %d: expected (%d, 7), got (%d, %d)", i, i+1, c[0], c[1])
			}
		}
	})

	t.Run("cancellation stops submitting new fetches", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		src := newRegistry(5)
		src.onFetch = func(id string) {
			if id == "101" {
				cancel()
			}
		}

		result := NewBatchProcessor(src, WithConcurrency(1)).Process(ctx, src.entities)
		if !result.Interrupted {
			t.Error("expected batch to be interrupted")
		}
		if result.Records[0] == nil {
			t.Error("expected in-flight fetch to complete")
		}
		for i := 1; i < 5; i++ {
			if result.Records[i] != nil {
				t.Errorf("expected entity %d not to be fetched", i)
			}
		}
		if len(result.Skipped) != 0 {
			t.Errorf("expected unstarted entities not to be skipped, got %d", len(result.Skipped))
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		result := NewBatchProcessor(newRegistry(0)).Process(context.Background(), []model.Entity{})
		if len(result.Records) != 0 || len(result.Skipped) != 0 || result.Interrupted {
			t.Errorf("unexpected result for empty batch: %+v", result)
		}
	})
}
