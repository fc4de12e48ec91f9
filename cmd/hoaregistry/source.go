package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/hoaregistry/internal/config"
	"github.com/nao1215/hoaregistry/internal/retrieve"
	"github.com/spf13/cobra"
)

// addSourceFlags registers the flags shared by every command that talks to
// the registry.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", config.SourceEndpoint,
		"Retrieval source: endpoint (direct requests) or browser (headless Chrome)")
	cmd.Flags().String("term", config.DefaultTerm,
		`Search term; "%" lists every registered entity`)
	cmd.Flags().IntP("limit", "l", config.DefaultLimit,
		"Maximum number of entities to process (0 = all)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Int("retries", config.DefaultRetries,
		"Attempts per request, including the first")
	cmd.Flags().Duration("wait", config.DefaultWait,
		"Time the browser source waits for search results to render")
	cmd.Flags().Bool("headless", true,
		"Run Chrome without a window (browser source only)")
	cmd.Flags().String("proxy", "",
		"Proxy URL, e.g. socks5://127.0.0.1:9050 or http://proxy:8080")
	cmd.Flags().Bool("insecure", false,
		"Skip TLS certificate verification")
	cmd.Flags().String("endpoint", config.DefaultEndpoint,
		"Registry query endpoint")
	cmd.Flags().String("search-url", config.DefaultSearchURL,
		"Registry search page (browser source only)")
}

// applySourceFlags copies the shared flags into cfg. Limit, term and wait
// are persisted settings and are only overridden when given explicitly.
func applySourceFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	flags := cmd.Flags()

	if cfg.Source, err = flags.GetString("source"); err != nil {
		return err
	}
	if flags.Changed("term") {
		if cfg.Term, err = flags.GetString("term"); err != nil {
			return err
		}
	}
	if flags.Changed("limit") {
		if cfg.Limit, err = flags.GetInt("limit"); err != nil {
			return err
		}
	}
	if flags.Changed("wait") {
		if cfg.Wait, err = flags.GetDuration("wait"); err != nil {
			return err
		}
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return err
	}
	if cfg.Retries, err = flags.GetInt("retries"); err != nil {
		return err
	}
	if cfg.Headless, err = flags.GetBool("headless"); err != nil {
		return err
	}
	if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
		return err
	}
	if cfg.Insecure, err = flags.GetBool("insecure"); err != nil {
		return err
	}
	if cfg.Endpoint, err = flags.GetString("endpoint"); err != nil {
		return err
	}
	if cfg.SearchURL, err = flags.GetString("search-url"); err != nil {
		return err
	}
	return nil
}

// newSource creates the retrieval source selected by cfg. The returned
// function releases the source and must always be called.
func newSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (retrieve.Source, func() error, error) {
	switch cfg.Source {
	case config.SourceBrowser:
		src := retrieve.NewBrowserSource(ctx, cfg.SearchURL,
			retrieve.WithBrowserTerm(cfg.Term),
			retrieve.WithWait(cfg.Wait),
			retrieve.WithBrowserTimeout(config.DefaultBrowserTimeout),
			retrieve.WithHeadless(cfg.Headless),
			retrieve.WithBrowserUserAgent(cfg.UserAgent),
			retrieve.WithBrowserLogger(logger),
		)
		return src, src.Close, nil

	case config.SourceEndpoint:
		hc, err := retrieve.NewHTTPClient(retrieve.ClientOptions{
			Timeout:  cfg.Timeout,
			Proxy:    cfg.Proxy,
			Insecure: cfg.Insecure,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		src := retrieve.NewEndpointSource(cfg.Endpoint, hc,
			retrieve.WithTerm(cfg.Term),
			retrieve.WithUserAgent(cfg.UserAgent),
			retrieve.WithRetries(cfg.Retries, cfg.RetryWait),
			retrieve.WithEndpointLogger(logger),
		)
		return src, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, cfg.Source)
	}
}
