package ingest

import (
	"context"

	"github.com/pgale/abn-tracker/constants"
)

// Outcome classifies one document-processing attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailed  Outcome = "FAILED"
	OutcomeSkipped Outcome = "SKIPPED"
)

// Result is the per-document outcome.
type Result struct {
	Path         string
	Filename     string
	DocumentID   string
	DocumentType constants.DocumentType
	HashHex      string
	Outcome      Outcome
	Err          string
}

// BatchStats summarizes a batch run.
type BatchStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Skipped   uint32
	Failed    uint32
}

// Ingestor is the behavior the callers depend on.
type Ingestor interface {
	// ProcessFile runs a single document through the pipeline.
	ProcessFile(ctx context.Context, path string) Result
	// ProcessDirectory runs every matching document directly under dir.
	ProcessDirectory(ctx context.Context, dir string, patterns []string) ([]Result, BatchStats, error)
}
