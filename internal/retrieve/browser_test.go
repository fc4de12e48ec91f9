package retrieve

import (
	"context"
	"testing"
	"time"
)

// TestRowSelector tests the result row selector.
func TestRowSelector(t *testing.T) {
	t.Parallel()

	want := `#areaResult tr.link-view[data-pid="1234"]`
	if got := rowSelector("1234"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestNewBrowserSource tests option handling without launching Chrome.
func TestNewBrowserSource(t *testing.T) {
	t.Parallel()

	src := NewBrowserSource(context.Background(), "https://example.com/hoa/",
		WithBrowserTerm("Oak"),
		WithWait(500*time.Millisecond),
		WithBrowserTimeout(5*time.Second),
		WithHeadless(true),
	)
	defer src.Close()

	if src.term != "Oak" {
		t.Errorf("expected term %q, got %q", "Oak", src.term)
	}
	if src.wait != 500*time.Millisecond {
		t.Errorf("expected wait 500ms, got %v", src.wait)
	}
	if src.timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", src.timeout)
	}
	if len(src.search()) != 4 {
		t.Errorf("expected 4 search actions, got %d", len(src.search()))
	}
}
