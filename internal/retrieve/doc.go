// Package retrieve fetches registry markup.
//
// Every retrieval strategy implements Source, which lists the registry's
// entities and fetches the detail markup of one entity. The rest of the
// application only sees Source and never cares how the markup arrived.
//
// # Sources
//
//   - EndpointSource: form-encoded POST requests against the registry's
//     AJAX endpoint, with retries (resty)
//   - BrowserSource: drives headless Chrome through the interactive search
//     page, for when the endpoint cannot be reached directly (chromedp)
//   - CachedSource: wraps another Source and reuses detail snapshots stored
//     in the local database
//
// # Usage
//
//	hc, err := retrieve.NewHTTPClient(retrieve.ClientOptions{Timeout: 10 * time.Second})
//	src := retrieve.NewEndpointSource(config.DefaultEndpoint, hc,
//	    retrieve.WithTerm("%"),
//	    retrieve.WithRetries(3, time.Second),
//	)
//	entities, err := src.FetchEntityList(ctx)
package retrieve
