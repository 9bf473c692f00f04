package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pgale/abn-tracker/constants"
	"github.com/pgale/abn-tracker/internal/parse"
	"github.com/pgale/abn-tracker/internal/pdftext"
	"github.com/pgale/abn-tracker/internal/repository"
)

// Orchestrator drives one batch run: enumerate candidate files, settle each
// against the registry ledger, parse the new ones and commit their facts.
// Documents are processed strictly one at a time; a bad document records a
// FAILED attempt and the run moves on.
type Orchestrator struct {
	registry  repository.DocumentRegistry
	writer    repository.FactWriter
	extractor *pdftext.Extractor
	logger    *slog.Logger
}

func NewOrchestrator(registry repository.DocumentRegistry, writer repository.FactWriter, extractor *pdftext.Extractor, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		writer:    writer,
		extractor: extractor,
		logger:    logger,
	}
}

// ProcessDirectory runs every file matching the patterns directly under
// dir. The returned error covers pattern problems only; per-document
// failures live in the results.
func (o *Orchestrator) ProcessDirectory(ctx context.Context, dir string, patterns []string) ([]Result, BatchStats, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, BatchStats{}, fmt.Errorf("glob %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	o.logger.Info("ingest.batch.start", "dir", dir, "patterns", patterns, "found", len(paths))

	var results []Result
	var stats BatchStats
	for _, path := range paths {
		stats.Scanned++
		if !AllowedExt(filepath.Ext(path)) || IsHidden(path) {
			continue
		}
		stats.Matched++

		r := o.ProcessFile(ctx, path)
		results = append(results, r)
		switch r.Outcome {
		case OutcomeSuccess:
			stats.Succeeded++
		case OutcomeSkipped:
			stats.Skipped++
		default:
			stats.Failed++
		}
	}

	o.logger.Info("ingest.batch.completed",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"skipped", stats.Skipped,
		"failed", stats.Failed)
	return results, stats, nil
}

// ProcessFile runs one document through the hash, ledger check, register,
// extract, parse, commit sequence. Failures after registration are recorded
// on the attempt row and never escape to the caller.
func (o *Orchestrator) ProcessFile(ctx context.Context, path string) Result {
	filename := filepath.Base(path)
	res := Result{
		Path:         path,
		Filename:     filename,
		DocumentType: constants.DocumentTypeForFilename(filename),
	}

	hash, err := HashFile(path)
	if err != nil {
		o.logger.Error("ingest.hash.failed", "filename", filename, "err", err)
		res.Outcome = OutcomeFailed
		res.Err = err.Error()
		return res
	}
	res.HashHex = hash

	prior, err := o.registry.FindSuccess(ctx, hash)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err.Error()
		return res
	}
	if prior != nil {
		o.logger.Info("ingest.skipped", "filename", filename, "hash", hash, "document_id", prior.DocumentID)
		res.Outcome = OutcomeSkipped
		res.DocumentID = prior.DocumentID
		return res
	}

	attempt, err := o.registry.Register(ctx, filename, hash, res.DocumentType)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err.Error()
		return res
	}
	res.DocumentID = attempt.DocumentID

	if err := o.parseAndCommit(ctx, path, attempt.DocumentID, res.DocumentType); err != nil {
		o.logger.Error("ingest.failed", "filename", filename, "document_id", attempt.DocumentID, "err", err)
		res.Outcome = OutcomeFailed
		res.Err = err.Error()
		if mErr := o.registry.MarkFailed(ctx, attempt.DocumentID, err.Error()); mErr != nil {
			o.logger.Error("ingest.mark_failed.failed", "document_id", attempt.DocumentID, "err", mErr)
		}
		return res
	}

	o.logger.Info("ingest.success", "filename", filename, "document_id", attempt.DocumentID, "type", res.DocumentType)
	res.Outcome = OutcomeSuccess
	return res
}

func (o *Orchestrator) parseAndCommit(ctx context.Context, path, documentID string, docType constants.DocumentType) error {
	extracted, err := o.extractor.Extract(ctx, path)
	if err != nil {
		return err
	}
	doc, err := parse.Parse(extracted.Text, docType)
	if err != nil {
		return err
	}
	payload, err := doc.Payload()
	if err != nil {
		return err
	}
	if err := parse.ValidatePayload(payload); err != nil {
		return err
	}
	return o.writer.CommitDocument(ctx, documentID, doc, payload)
}
