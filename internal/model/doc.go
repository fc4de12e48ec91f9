// Package model defines the core data structures used throughout hoaregistry.
//
// This package contains the following main types:
//   - ContactInfo: One person's contact block (name, phone, email, address)
//   - DetailRecord: One HOA registration with its fixed fields and role groups
//   - FlatRow and Table: The flattened, rectangular form of many records
//   - Entity and Run: A registry list entry and one execution of the scraper
//
// Records are built once from a single detail page and never mutated
// afterwards. Only the flattening step turns them into loosely typed
// string-keyed rows, right before export.
package model
