package model

import "time"

// Entity is one entry of the registry list.
type Entity struct {
	// ID is the registry's internal identifier (the data-pid attribute).
	ID string `json:"id"`

	// Name is the display name shown in the list.
	Name string `json:"name"`
}

// SkippedEntity records an entity whose detail could not be retrieved
// or produced no record.
type SkippedEntity struct {
	Entity

	// Reason is a human readable description of the failure.
	Reason string `json:"reason"`
}

// Run holds the state and outcome of one scraper execution.
// Pipeline steps read and fill it in order.
type Run struct {
	// Source names the retrieval strategy ("endpoint" or "browser").
	Source string `json:"source"`

	// Term is the search term used to enumerate entities.
	Term string `json:"term"`

	// Limit caps the number of entities processed; 0 means all.
	Limit int `json:"limit"`

	// TotalFound is the number of entities in the registry list before
	// the limit was applied.
	TotalFound int `json:"total_found"`

	// Entities are the entities selected for processing.
	Entities []Entity `json:"entities"`

	// Records holds the extracted records in entity order.
	// Entries are nil for skipped entities.
	Records []*DetailRecord `json:"-"`

	// Skipped lists the entities that produced no record.
	Skipped []SkippedEntity `json:"skipped,omitempty"`

	// Table is the flattened result, set once retrieval completes.
	Table *Table `json:"table,omitempty"`

	// OutputPath is where the table was exported, empty if not exported.
	OutputPath string `json:"output_path,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Interrupted is true when the run was cancelled before every entity
	// was submitted.
	Interrupted bool `json:"interrupted"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps"`

	// Error is the fatal error that stopped the run, if any.
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// NewRun creates a run for the given source and search term.
func NewRun(source, term string, limit int) *Run {
	return &Run{
		Source:         source,
		Term:           term,
		Limit:          limit,
		Entities:       make([]Entity, 0),
		Skipped:        make([]SkippedEntity, 0),
		PerformedSteps: make([]string, 0),
		StartedAt:      time.Now(),
	}
}

// Processed returns the number of entities that produced a record.
func (r *Run) Processed() int {
	n := 0
	for _, rec := range r.Records {
		if rec != nil {
			n++
		}
	}
	return n
}

// Succeeded reports whether the run finished without a fatal error.
func (r *Run) Succeeded() bool {
	return r.Error == nil
}

// Duration returns how long the run took, or the time elapsed so far.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
