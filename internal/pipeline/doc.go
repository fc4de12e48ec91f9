// Package pipeline runs one scrape of the HOA registry as a sequence of
// steps: list the entities, fetch and extract their details, flatten the
// records into a table, export the table and optionally write a summary.
//
// Each stage is a Step that receives the shared model.Run and fills in its
// part. Detail retrieval is fanned out by BatchProcessor, a bounded worker
// pool built on errgroup.
//
// Scrape assembles the default pipeline and is the entry point used by the
// command line. Progress and status messages are reported through an
// Observer so callers can render them however they like.
package pipeline
