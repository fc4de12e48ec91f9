package retrieve

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"github.com/nao1215/hoaregistry/internal/extract"
	"github.com/nao1215/hoaregistry/internal/model"
)

// Endpoint form values. The registry's script posts f=s with the search
// term to list entities and f=d with an entity ID to load its detail.
const (
	formFunction = "f"
	formValue    = "v"
	functionList = "s"
	functionShow = "d"
)

// EndpointSource queries the registry's AJAX endpoint directly.
type EndpointSource struct {
	endpoint  string
	term      string
	userAgent string
	retries   int
	retryWait time.Duration
	logger    *slog.Logger
	client    *resty.Client
}

// EndpointOption configures an EndpointSource.
type EndpointOption func(*EndpointSource)

// WithTerm sets the search term used by FetchEntityList.
func WithTerm(term string) EndpointOption {
	return func(s *EndpointSource) {
		s.term = term
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) EndpointOption {
	return func(s *EndpointSource) {
		s.userAgent = ua
	}
}

// WithRetries sets the number of attempts per request and the pause
// between them.
func WithRetries(attempts int, wait time.Duration) EndpointOption {
	return func(s *EndpointSource) {
		if attempts > 0 {
			s.retries = attempts
		}
		if wait >= 0 {
			s.retryWait = wait
		}
	}
}

// WithEndpointLogger sets the logger.
func WithEndpointLogger(logger *slog.Logger) EndpointOption {
	return func(s *EndpointSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewEndpointSource creates a source for the endpoint URL using hc for
// transport. A nil hc uses http.DefaultClient.
func NewEndpointSource(endpoint string, hc *http.Client, opts ...EndpointOption) *EndpointSource {
	s := &EndpointSource{
		endpoint:  endpoint,
		term:      "%",
		retries:   3,
		retryWait: time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if hc == nil {
		hc = http.DefaultClient
	}
	client := resty.NewWithClient(hc).
		SetRetryCount(s.retries - 1).
		SetRetryWaitTime(s.retryWait).
		SetRetryMaxWaitTime(s.retryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Accept", "text/html, */*; q=0.01").
		SetHeader("X-Requested-With", "XMLHttpRequest")
	if s.userAgent != "" {
		client.SetHeader("User-Agent", s.userAgent)
	}
	s.client = client
	return s
}

// FetchEntityList posts the search term and parses the result table.
func (s *EndpointSource) FetchEntityList(ctx context.Context) ([]model.Entity, error) {
	markup, err := s.post(ctx, functionList, s.term)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entity list: %w", err)
	}
	entities := extract.EntityList(markup)
	s.logger.Debug("entity list fetched", "term", s.term, "count", len(entities))
	return entities, nil
}

// FetchDetailMarkup posts the entity ID and returns the detail markup.
func (s *EndpointSource) FetchDetailMarkup(ctx context.Context, entityID string) (string, error) {
	markup, err := s.post(ctx, functionShow, entityID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch detail of %s: %w", entityID, err)
	}
	return markup, nil
}

// post sends one form request and returns the decoded body.
func (s *EndpointSource) post(ctx context.Context, function, value string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			formFunction: function,
			formValue:    value,
		}).
		Post(s.endpoint)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	markup, err := decodeBody(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(markup) == "" {
		return "", ErrEmptyMarkup
	}

	s.logger.Debug("endpoint response",
		"function", function,
		"status", resp.StatusCode(),
		"bytes", len(markup),
		"elapsed", resp.Time(),
	)
	return markup, nil
}

// decodeBody converts body to UTF-8 using the charset declared in the
// content type or sniffed from the markup.
func decodeBody(body []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(decoded), nil
}
