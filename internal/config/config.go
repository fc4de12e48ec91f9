package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/hoaregistry/internal/export"
)

// Retrieval sources.
const (
	// SourceEndpoint queries the registry's AJAX endpoint directly.
	SourceEndpoint = "endpoint"

	// SourceBrowser drives a headless Chrome through the search page.
	// It is slower and only needed when the endpoint is unavailable.
	SourceBrowser = "browser"
)

// Export formats, as accepted by export.NewWriter.
const (
	FormatCSV  = export.FormatCSV
	FormatXLSX = export.FormatXLSX
	FormatJSON = export.FormatJSON
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "hoaregistry"

	// DefaultEndpoint is the registry's query endpoint. It accepts
	// form-encoded POST requests with f=s (search) or f=d (detail).
	DefaultEndpoint = "https://services.commerce.utah.gov/hoa/assets/js/hoa-ajax.php"

	// DefaultSearchURL is the interactive search page used by the browser source.
	DefaultSearchURL = "https://services.commerce.utah.gov/hoa/"

	// DefaultTerm is the search term. The endpoint treats "%" as a wildcard,
	// so the default lists every registered entity.
	DefaultTerm = "%"

	// DefaultLimit of 0 processes every entity found.
	DefaultLimit = 0

	// DefaultWorkers is the number of detail pages fetched in parallel.
	// The registry tolerates 20 concurrent requests without throttling.
	DefaultWorkers = 20

	// DefaultTimeout applies to each individual request.
	DefaultTimeout = 10 * time.Second

	// DefaultRetries is the number of attempts per request.
	DefaultRetries = 3

	// DefaultRetryWait is the pause between attempts.
	DefaultRetryWait = 1 * time.Second

	// DefaultWait is how long the browser source waits for search results
	// to render after typing the term.
	DefaultWait = 2 * time.Second

	// DefaultOutputFile is the canonical export file name.
	DefaultOutputFile = "utah_hoa_registry_data.csv"

	// DefaultFormat is the export format used when neither --format nor
	// the output file extension selects one.
	DefaultFormat = FormatCSV

	// DefaultUserAgent mimics a desktop browser. The endpoint rejects
	// requests without a browser-like User-Agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultBrowserTimeout bounds one detail lookup in the browser source,
	// which includes page navigation and rendering.
	DefaultBrowserTimeout = 30 * time.Second
)

// Config holds all options for one scraper run.
// It is populated from CLI flags and persisted settings and passed through
// the application explicitly rather than via global state.
type Config struct {
	// Source selects the retrieval strategy: SourceEndpoint or SourceBrowser.
	Source string

	// Endpoint is the URL of the registry's query endpoint.
	Endpoint string

	// SearchURL is the URL of the interactive search page.
	SearchURL string

	// Term is the search term used to enumerate entities.
	Term string

	// Limit caps the number of entities processed. 0 means all.
	Limit int

	// Workers is the number of detail pages fetched concurrently.
	Workers int

	// Timeout applies to each request, not to the whole run.
	Timeout time.Duration

	// Retries is the number of attempts per request, including the first.
	Retries int

	// RetryWait is the pause between attempts.
	RetryWait time.Duration

	// Wait is how long the browser source waits for results to render.
	Wait time.Duration

	// Headless runs Chrome without a window. Only used by the browser source.
	Headless bool

	// SaveDir is the directory the export file is written to.
	// Empty means the current directory.
	SaveDir string

	// Output is the export file name or path. A relative name is joined
	// with SaveDir.
	Output string

	// Format is the export format. Empty means infer from Output's extension.
	Format string

	// SummaryFile, when set, receives a Markdown summary of the run.
	SummaryFile string

	// Proxy is an optional proxy URL, e.g. socks5://127.0.0.1:9050.
	Proxy string

	// Insecure disables TLS certificate verification.
	Insecure bool

	// UserAgent is sent with every endpoint request.
	UserAgent string

	// CacheMaxAge enables the snapshot cache: detail markup stored more
	// recently than this is reused instead of fetched. 0 disables reuse.
	CacheMaxAge time.Duration

	// DBDir is the directory holding the SQLite database.
	DBDir string

	// SaveToDB records snapshots and run history in the database.
	SaveToDB bool

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Source:    SourceEndpoint,
		Endpoint:  DefaultEndpoint,
		SearchURL: DefaultSearchURL,
		Term:      DefaultTerm,
		Limit:     DefaultLimit,
		Workers:   DefaultWorkers,
		Timeout:   DefaultTimeout,
		Retries:   DefaultRetries,
		RetryWait: DefaultRetryWait,
		Wait:      DefaultWait,
		Headless:  true,
		Output:    DefaultOutputFile,
		UserAgent: DefaultUserAgent,
		DBDir:     XDGDataDir(),
		SaveToDB:  true,
	}
}

// XDGDataDir returns the XDG data directory for hoaregistry.
// On Linux: ~/.local/share/hoaregistry
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for hoaregistry.
// On Linux: ~/.config/hoaregistry
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceEndpoint, SourceBrowser:
	default:
		return ErrUnknownSource
	}

	if strings.TrimSpace(c.Term) == "" {
		return ErrEmptyTerm
	}

	if c.Limit < 0 {
		return ErrInvalidLimit
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Retries <= 0 {
		return ErrInvalidRetries
	}

	if c.Wait < 0 {
		return ErrInvalidWait
	}

	if _, err := c.ExportFormat(); err != nil {
		return err
	}

	return nil
}

// ExportFormat resolves the export format: Format when set, otherwise the
// extension of Output, otherwise DefaultFormat.
func (c *Config) ExportFormat() (string, error) {
	format := strings.ToLower(strings.TrimSpace(c.Format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(c.Output)), ".")
		if format == "" {
			return DefaultFormat, nil
		}
	}
	switch format {
	case FormatCSV, FormatXLSX, FormatJSON:
		return format, nil
	default:
		return "", ErrUnknownFormat
	}
}

// OutputPath returns the export file path. Output is used as is when it is
// absolute, otherwise it is joined with SaveDir. The file extension always
// matches the resolved format.
func (c *Config) OutputPath() string {
	name := c.Output
	if name == "" {
		name = DefaultOutputFile
	}
	if format, err := c.ExportFormat(); err == nil {
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, "."+format) {
			name = strings.TrimSuffix(name, ext) + "." + format
		}
	}
	if filepath.IsAbs(name) || c.SaveDir == "" {
		return name
	}
	return filepath.Join(c.SaveDir, name)
}

// ApplySettings copies persisted settings into the configuration.
func (c *Config) ApplySettings(s Settings) {
	c.Limit = s.Limit
	if s.Term != "" {
		c.Term = s.Term
	}
	if s.Wait > 0 {
		c.Wait = s.Wait
	}
	c.SaveDir = s.SaveDir
}

// Settings returns the persisted subset of the configuration.
func (c *Config) Settings() Settings {
	return Settings{
		Limit:   c.Limit,
		Term:    c.Term,
		Wait:    c.Wait,
		SaveDir: c.SaveDir,
	}
}
