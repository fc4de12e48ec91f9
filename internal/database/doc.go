// Package database provides SQLite-based storage for hoaregistry.
//
// The RegistryDB stores:
//   - Snapshots: the last detail markup fetched for each entity, with a
//     SHA3-256 hash so changes between runs can be detected
//   - Runs: one row per scraper execution for the history command
//
// Snapshots double as a cache. When a maximum age is configured, the
// retrieval layer reuses a snapshot younger than that age instead of
// fetching the page again.
//
// SQLite (via modernc.org/sqlite) keeps the database in a single file
// without CGO. The file lives under the XDG data directory by default.
package database
