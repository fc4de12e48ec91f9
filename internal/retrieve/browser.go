package retrieve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/nao1215/hoaregistry/internal/extract"
	"github.com/nao1215/hoaregistry/internal/model"
)

// Search page element selectors.
const (
	selectorSearchInput = "#HOAsearch"
	selectorResultArea  = "#areaResult"
	selectorResultRow   = "#areaResult tr.link-view"
	selectorDetailTitle = "#areaResult h1"
)

// BrowserSource drives headless Chrome through the registry's interactive
// search page. Every call opens its own tab in a shared browser, so
// detail lookups can run concurrently.
type BrowserSource struct {
	searchURL string
	term      string
	wait      time.Duration
	timeout   time.Duration
	headless  bool
	userAgent string
	logger    *slog.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	closeTab    context.CancelFunc

	startOnce sync.Once
	startErr  error
}

// BrowserOption configures a BrowserSource.
type BrowserOption func(*BrowserSource)

// WithBrowserTerm sets the search term typed into the search box.
func WithBrowserTerm(term string) BrowserOption {
	return func(s *BrowserSource) {
		s.term = term
	}
}

// WithWait sets how long to wait for search results after typing.
func WithWait(wait time.Duration) BrowserOption {
	return func(s *BrowserSource) {
		s.wait = wait
	}
}

// WithBrowserTimeout bounds each list or detail lookup.
func WithBrowserTimeout(timeout time.Duration) BrowserOption {
	return func(s *BrowserSource) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithHeadless selects whether Chrome runs without a window.
func WithHeadless(headless bool) BrowserOption {
	return func(s *BrowserSource) {
		s.headless = headless
	}
}

// WithBrowserUserAgent overrides Chrome's User-Agent.
func WithBrowserUserAgent(ua string) BrowserOption {
	return func(s *BrowserSource) {
		s.userAgent = ua
	}
}

// WithBrowserLogger sets the logger.
func WithBrowserLogger(logger *slog.Logger) BrowserOption {
	return func(s *BrowserSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBrowserSource starts a Chrome allocator for the search page URL.
// Chrome itself is launched lazily on the first lookup. Call Close to
// shut it down.
func NewBrowserSource(ctx context.Context, searchURL string, opts ...BrowserOption) *BrowserSource {
	s := &BrowserSource{
		searchURL: searchURL,
		term:      "%",
		wait:      2 * time.Second,
		timeout:   30 * time.Second,
		headless:  true,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(s.userAgent))
	}

	// The allocator outlives the caller's context so in-flight lookups can
	// finish after cancellation. Close releases it.
	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	s.browserCtx, s.closeTab = chromedp.NewContext(s.allocCtx)
	return s
}

// Close shuts down the browser. Close is safe to call before any lookup.
func (s *BrowserSource) Close() error {
	s.closeTab()
	s.allocCancel()
	return nil
}

// start launches Chrome once. Tabs created before the browser runs would
// each get a browser of their own.
func (s *BrowserSource) start() error {
	s.startOnce.Do(func() {
		if err := chromedp.Run(s.browserCtx); err != nil {
			s.startErr = fmt.Errorf("failed to start browser: %w", err)
		}
	})
	return s.startErr
}

// newTab opens a tab in the shared browser, bounded by the source timeout
// and by ctx.
func (s *BrowserSource) newTab(ctx context.Context) (context.Context, context.CancelFunc) {
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	timeoutCtx, cancelTimeout := context.WithTimeout(tabCtx, s.timeout)
	stop := context.AfterFunc(ctx, cancelTab)
	return timeoutCtx, func() {
		stop()
		cancelTimeout()
		cancelTab()
	}
}

// search returns the chromedp actions that open the search page and type
// the term.
func (s *BrowserSource) search() chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate(s.searchURL),
		chromedp.WaitVisible(selectorSearchInput, chromedp.ByQuery),
		chromedp.SendKeys(selectorSearchInput, s.term, chromedp.ByQuery),
		chromedp.Sleep(s.wait),
	}
}

// FetchEntityList searches for the term and parses the result table.
func (s *BrowserSource) FetchEntityList(ctx context.Context) ([]model.Entity, error) {
	if err := s.start(); err != nil {
		return nil, err
	}
	tabCtx, cancel := s.newTab(ctx)
	defer cancel()

	var markup string
	err := chromedp.Run(tabCtx,
		s.search(),
		chromedp.WaitVisible(selectorResultRow, chromedp.ByQuery),
		chromedp.OuterHTML(selectorResultArea, &markup, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entity list in browser: %w", err)
	}

	entities := extract.EntityList(markup)
	s.logger.Debug("entity list fetched in browser", "term", s.term, "count", len(entities))
	return entities, nil
}

// FetchDetailMarkup searches for the term, clicks the entity's row and
// returns the detail markup once it has rendered.
func (s *BrowserSource) FetchDetailMarkup(ctx context.Context, entityID string) (string, error) {
	if err := s.start(); err != nil {
		return "", err
	}
	tabCtx, cancel := s.newTab(ctx)
	defer cancel()

	var markup string
	err := chromedp.Run(tabCtx,
		s.search(),
		chromedp.Click(rowSelector(entityID), chromedp.ByQuery, chromedp.NodeVisible),
		chromedp.WaitVisible(selectorDetailTitle, chromedp.ByQuery),
		chromedp.OuterHTML(selectorResultArea, &markup, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to fetch detail of %s in browser: %w", entityID, err)
	}
	if strings.TrimSpace(markup) == "" {
		return "", ErrEmptyMarkup
	}
	return markup, nil
}

// rowSelector selects the result row of one entity.
func rowSelector(entityID string) string {
	return fmt.Sprintf(`#areaResult tr.link-view[data-pid=%q]`, entityID)
}
