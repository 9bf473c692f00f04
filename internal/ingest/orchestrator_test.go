package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pgale/abn-tracker/constants"
	"github.com/pgale/abn-tracker/internal/entity"
	"github.com/pgale/abn-tracker/internal/pdftext"
	"github.com/pgale/abn-tracker/internal/repository"
)

const currentExtract = `Current details for ABN 99 125 524 457

ABN details

Entity name: Example Pty Ltd

ABN status: Active from 01 May 2010

Entity type: Australian Private Company

Goods & Services Tax (GST): Registered from 01 May 2010

Main business location: NSW 2000

Record extracted 21 Aug 2026
`

const historicalExtract = `Historical details for ABN 99 125 524 457

Entity name                          From           To
EXAMPLE PTY LTD                      01 May 2010    (current)

ABN status                           From           To
Active                               01 May 2010    (current)

Goods & Services Tax (GST)           From           To
Registered                           01 Jul 2010    30 Jun 2018

Main business location               From           To
NSW 2000                             01 May 2010    30 Jun 2015
VIC 3000                             30 Jun 2015    (current)

Record extracted 21 Aug 2026
`

func newTestOrchestrator(t *testing.T) (*Orchestrator, *gorm.DB) {
	t.Helper()
	db, err := repository.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := repository.NewDocumentRegistry(db, logger)
	writer := repository.NewFactWriter(db, logger)
	extractor := pdftext.NewExtractor(pdftext.Config{}, logger)
	return NewOrchestrator(registry, writer, extractor, logger), db
}

func writeFixture(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestProcessFileCurrentExtract(t *testing.T) {
	o, db := newTestOrchestrator(t)
	path := writeFixture(t, t.TempDir(), "ABN_Current_details_99125524457.txt", currentExtract)

	res := o.ProcessFile(context.Background(), path)
	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, constants.DocumentTypeCurrent, res.DocumentType)
	assert.Len(t, res.HashHex, 64)
	assert.Empty(t, res.Err)

	var ent entity.ABNEntity
	require.NoError(t, db.Where("abn = ?", "99125524457").First(&ent).Error)
	assert.Equal(t, "Example Pty Ltd", ent.EntityName)

	var doc entity.Document
	require.NoError(t, db.Where("document_id = ?", res.DocumentID).First(&doc).Error)
	assert.Equal(t, string(constants.IngestionStatusSuccess), doc.IngestionStatus)
	assert.NotEmpty(t, doc.ParsedPayload)
}

func TestProcessFileIsIdempotent(t *testing.T) {
	o, db := newTestOrchestrator(t)
	dir := t.TempDir()
	path := writeFixture(t, dir, "ABN_Historical_details_99125524457.txt", historicalExtract)
	ctx := context.Background()

	first := o.ProcessFile(ctx, path)
	require.Equal(t, OutcomeSuccess, first.Outcome)

	var factsAfterFirst int64
	require.NoError(t, db.Model(&entity.LocationHistory{}).Count(&factsAfterFirst).Error)

	second := o.ProcessFile(ctx, path)
	assert.Equal(t, OutcomeSkipped, second.Outcome)
	assert.Equal(t, first.DocumentID, second.DocumentID)

	// A renamed copy carries the same bytes, so it settles to the same row.
	renamed := writeFixture(t, dir, "copy of extract.txt", historicalExtract)
	third := o.ProcessFile(ctx, renamed)
	assert.Equal(t, OutcomeSkipped, third.Outcome)
	assert.Equal(t, first.DocumentID, third.DocumentID)

	var facts int64
	require.NoError(t, db.Model(&entity.LocationHistory{}).Count(&facts).Error)
	assert.Equal(t, factsAfterFirst, facts)
}

func TestProcessFileBadDocumentLeavesRetryableAttempt(t *testing.T) {
	o, db := newTestOrchestrator(t)

	// Break the GST header so the required section never matches.
	broken := strings.Replace(historicalExtract, "Goods & Services Tax (GST)", "GST", 1)
	path := writeFixture(t, t.TempDir(), "ABN_Historical_details_99125524457.txt", broken)
	ctx := context.Background()

	res := o.ProcessFile(ctx, path)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Contains(t, res.Err, "goods and services tax")

	var doc entity.Document
	require.NoError(t, db.Where("document_id = ?", res.DocumentID).First(&doc).Error)
	assert.Equal(t, string(constants.IngestionStatusFailed), doc.IngestionStatus)
	require.NotNil(t, doc.ErrorMessage)
	assert.Contains(t, *doc.ErrorMessage, "goods and services tax")

	// FAILED never settles the hash: the next run tries again and appends a
	// second attempt row.
	again := o.ProcessFile(ctx, path)
	assert.Equal(t, OutcomeFailed, again.Outcome)
	assert.NotEqual(t, res.DocumentID, again.DocumentID)

	var attempts int64
	require.NoError(t, db.Model(&entity.Document{}).Where("file_hash_sha256 = ?", res.HashHex).Count(&attempts).Error)
	assert.EqualValues(t, 2, attempts)
}

func TestProcessDirectoryIsolatesFailures(t *testing.T) {
	o, db := newTestOrchestrator(t)
	dir := t.TempDir()
	writeFixture(t, dir, "ABN_Current_details_99125524457.txt", currentExtract)
	writeFixture(t, dir, "ABN_Historical_details_99125524457.txt", historicalExtract)
	writeFixture(t, dir, "ABN_Historical_details_00000000000.txt", "not a registry extract")

	results, stats, err := o.ProcessDirectory(context.Background(), dir, []string{"*.txt"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.EqualValues(t, 3, stats.Scanned)
	assert.EqualValues(t, 3, stats.Matched)
	assert.EqualValues(t, 2, stats.Succeeded)
	assert.EqualValues(t, 1, stats.Failed)
	assert.EqualValues(t, 0, stats.Skipped)

	var failed *Result
	for i := range results {
		if results[i].Outcome == OutcomeFailed {
			failed = &results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "ABN_Historical_details_00000000000.txt", failed.Filename)
	assert.NotEmpty(t, failed.Err)

	// The good documents landed despite the bad neighbor.
	var entities int64
	require.NoError(t, db.Model(&entity.ABNEntity{}).Count(&entities).Error)
	assert.EqualValues(t, 1, entities)

	var succeeded int64
	require.NoError(t, db.Model(&entity.Document{}).
		Where("ingestion_status = ?", string(constants.IngestionStatusSuccess)).
		Count(&succeeded).Error)
	assert.EqualValues(t, 2, succeeded)
}

func TestProcessDirectoryFiltersNonDocuments(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	dir := t.TempDir()
	writeFixture(t, dir, "ABN_Current_details_99125524457.txt", currentExtract)
	writeFixture(t, dir, ".ABN_Current_details_hidden.txt", currentExtract)
	writeFixture(t, dir, "notes.md", "scratch")

	_, stats, err := o.ProcessDirectory(context.Background(), dir, []string{"*"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Scanned)
	assert.EqualValues(t, 1, stats.Matched)
	assert.EqualValues(t, 1, stats.Succeeded)
}

func TestAllowedExt(t *testing.T) {
	assert.True(t, AllowedExt(".pdf"))
	assert.True(t, AllowedExt(".TXT"))
	assert.False(t, AllowedExt(".md"))
	assert.False(t, AllowedExt(""))
}

func TestHashFileStable(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.txt", "same bytes")
	b := writeFixture(t, dir, "b.txt", "same bytes")

	ha, err := HashFile(a)
	require.NoError(t, err)
	hb, err := HashFile(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)

	_, err = HashFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
