package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pgale/abn-tracker/constants"
	"github.com/pgale/abn-tracker/internal/entity"
	"github.com/pgale/abn-tracker/internal/parse"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// historicalDocument builds a parsed historical extract: two locations (one
// closed, one open), one closed GST interval, a trading name and an ACN.
func historicalDocument() *parse.Document {
	registered := date(2010, time.May, 1)
	moved := date(2015, time.June, 30)
	gstEnd := date(2018, time.June, 30)
	return &parse.Document{
		ABN:          "99125524457",
		DocumentType: constants.DocumentTypeHistorical,
		Entity: parse.EntityDetails{
			EntityName:      "EXAMPLE PTY LTD",
			EntityType:      "Australian Private Company",
			FirstActiveDate: &registered,
		},
		NameHistory: []parse.NameFact{
			{EntityName: "EXAMPLE PTY LTD", Interval: parse.Interval{From: &registered, IsCurrent: true}},
		},
		StatusHistory: []parse.StatusFact{
			{Status: "Active", Interval: parse.Interval{From: &registered, IsCurrent: true}},
		},
		LocationHistory: []parse.LocationFact{
			{State: "NSW", Postcode: "2000", Interval: parse.Interval{From: &registered, To: &moved}},
			{State: "VIC", Postcode: "3000", Interval: parse.Interval{From: &moved, IsCurrent: true}},
		},
		GSTHistory: []parse.GSTFact{
			{Status: "Registered", Interval: parse.Interval{From: &registered, To: &gstEnd}},
		},
		TradingNames:      []parse.StaticName{{Name: "EXAMPLE TRADING", From: &registered}},
		ASICRegistrations: []parse.ASICFact{{Type: "ACN", Number: "125524457"}},
	}
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCommitDocumentWritesAllStreams(t *testing.T) {
	db := newTestDB(t)
	reg := NewDocumentRegistry(db, testLogger())
	writer := NewFactWriter(db, testLogger())
	ctx := context.Background()

	doc := historicalDocument()
	payload, err := doc.Payload()
	require.NoError(t, err)

	attempt, err := reg.Register(ctx, "historical_99125524457.txt", testHash, constants.DocumentTypeHistorical)
	require.NoError(t, err)
	require.NoError(t, writer.CommitDocument(ctx, attempt.DocumentID, doc, payload))

	settled, err := reg.FindSuccess(ctx, testHash)
	require.NoError(t, err)
	require.NotNil(t, settled)
	assert.Equal(t, attempt.DocumentID, settled.DocumentID)
	assert.Nil(t, settled.ErrorMessage)
	assert.JSONEq(t, string(payload), string(settled.ParsedPayload))

	var ent entity.ABNEntity
	require.NoError(t, db.Where("abn = ?", "99125524457").First(&ent).Error)
	assert.Equal(t, "EXAMPLE PTY LTD", ent.EntityName)
	require.NotNil(t, ent.EntityType)
	assert.Equal(t, "Australian Private Company", *ent.EntityType)
	assert.Equal(t, attempt.DocumentID, ent.SourceDocumentID)

	assert.EqualValues(t, 1, count(t, db, &entity.StatusHistory{}))
	assert.EqualValues(t, 1, count(t, db, &entity.NameHistory{}))
	assert.EqualValues(t, 2, count(t, db, &entity.LocationHistory{}))
	assert.EqualValues(t, 1, count(t, db, &entity.GSTHistory{}))
	assert.EqualValues(t, 1, count(t, db, &entity.TradingName{}))
	assert.EqualValues(t, 1, count(t, db, &entity.ASICRegistration{}))
	assert.EqualValues(t, 0, count(t, db, &entity.BusinessName{}))

	var current entity.LocationHistory
	require.NoError(t, db.Where("abn = ? AND is_current = ?", "99125524457", true).First(&current).Error)
	assert.Equal(t, "VIC", current.State)
	assert.Equal(t, "3000", current.Postcode)
	assert.Nil(t, current.ToDate)

	var closed entity.GSTHistory
	require.NoError(t, db.Where("abn = ?", "99125524457").First(&closed).Error)
	require.NotNil(t, closed.ToDate)
	assert.False(t, closed.IsCurrent)
}

func TestCommitDocumentFirstWriterWinsOnEntity(t *testing.T) {
	db := newTestDB(t)
	reg := NewDocumentRegistry(db, testLogger())
	writer := NewFactWriter(db, testLogger())
	ctx := context.Background()

	doc := historicalDocument()
	payload, err := doc.Payload()
	require.NoError(t, err)
	first, err := reg.Register(ctx, "historical.txt", testHash, constants.DocumentTypeHistorical)
	require.NoError(t, err)
	require.NoError(t, writer.CommitDocument(ctx, first.DocumentID, doc, payload))

	// A later current extract for the same ABN spells the name differently.
	later := historicalDocument()
	later.DocumentType = constants.DocumentTypeCurrent
	later.Entity.EntityName = "Example Pty Ltd"
	otherHash := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	second, err := reg.Register(ctx, "current.txt", otherHash, constants.DocumentTypeCurrent)
	require.NoError(t, err)
	require.NoError(t, writer.CommitDocument(ctx, second.DocumentID, later, payload))

	// The entity row keeps the first writer; facts from both documents stack.
	var ent entity.ABNEntity
	require.NoError(t, db.Where("abn = ?", "99125524457").First(&ent).Error)
	assert.Equal(t, "EXAMPLE PTY LTD", ent.EntityName)
	assert.Equal(t, first.DocumentID, ent.SourceDocumentID)
	assert.EqualValues(t, 1, count(t, db, &entity.ABNEntity{}))
	assert.EqualValues(t, 2, count(t, db, &entity.StatusHistory{}))
	assert.EqualValues(t, 4, count(t, db, &entity.LocationHistory{}))
}

func TestCommitDocumentWithoutAttemptRowRollsBack(t *testing.T) {
	db := newTestDB(t)
	writer := NewFactWriter(db, testLogger())

	doc := historicalDocument()
	payload, err := doc.Payload()
	require.NoError(t, err)

	err = writer.CommitDocument(context.Background(), "11111111-1111-1111-1111-111111111111", doc, payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// The transaction rolled back, so no facts leaked.
	assert.EqualValues(t, 0, count(t, db, &entity.ABNEntity{}))
	assert.EqualValues(t, 0, count(t, db, &entity.StatusHistory{}))
	assert.EqualValues(t, 0, count(t, db, &entity.LocationHistory{}))
}
