package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nao1215/hoaregistry/internal/model"
)

// fakeSource serves entities and markup from memory.
type fakeSource struct {
	mu       sync.Mutex
	entities []model.Entity
	listErr  error
	markup   map[string]string
	fetchErr map[string]error

	// onFetch runs before each detail fetch returns.
	onFetch func(id string)

	fetched []string
}

func (f *fakeSource) FetchEntityList(_ context.Context) ([]model.Entity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entities, nil
}

func (f *fakeSource) FetchDetailMarkup(_ context.Context, id string) (string, error) {
	if f.onFetch != nil {
		f.onFetch(id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, id)
	if err := f.fetchErr[id]; err != nil {
		return "", err
	}
	return f.markup[id], nil
}

// detailMarkup returns a minimal detail page with a president card.
func detailMarkup(name, president string) string {
	return fmt.Sprintf(`<html><body>
<h1 class="mb-0">%s</h1>
<div class="row border primary-color-border mt-4">
  <div class="col-md-4">
    <h4 class="mb-0">President</h4>
    <p class="mt-0 ml-3">%s<br>801-555-1234</p>
  </div>
</div>
</body></html>`, name, president)
}

// newRegistry returns a source with n entities, each with a detail page.
func newRegistry(n int) *fakeSource {
	src := &fakeSource{
		markup:   make(map[string]string),
		fetchErr: make(map[string]error),
	}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("%d", 100+i)
		name := fmt.Sprintf("HOA %d", i)
		src.entities = append(src.entities, model.Entity{ID: id, Name: name})
		src.markup[id] = detailMarkup(name, fmt.Sprintf("President %d", i))
	}
	return src
}

var errFetch = errors.New("connection reset")
