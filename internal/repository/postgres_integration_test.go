//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/pgale/abn-tracker/constants"
	"github.com/pgale/abn-tracker/internal/entity"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("abr"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgresSchemaAndRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	dsn := startPostgres(t)
	ctx := context.Background()
	logger := testLogger()

	require.NoError(t, InitSchema(dsn, logger))
	// Re-running against an up-to-date schema is a no-op.
	require.NoError(t, InitSchema(dsn, logger))

	db, pool, err := Open(ctx, Config{
		DSN:             dsn,
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		DialTimeout:     10 * time.Second,
	}, logger)
	require.NoError(t, err)
	defer Close(pool, logger)
	require.NoError(t, HealthCheck(ctx, pool, 5*time.Second, logger))

	reg := NewDocumentRegistry(db, logger)
	writer := NewFactWriter(db, logger)

	doc := historicalDocument()
	payload, err := doc.Payload()
	require.NoError(t, err)

	attempt, err := reg.Register(ctx, "ABN_Historical_details_99125524457.txt", testHash, constants.DocumentTypeHistorical)
	require.NoError(t, err)
	require.NoError(t, writer.CommitDocument(ctx, attempt.DocumentID, doc, payload))

	settled, err := reg.FindSuccess(ctx, testHash)
	require.NoError(t, err)
	require.NotNil(t, settled)
	assert.Equal(t, attempt.DocumentID, settled.DocumentID)

	// The migration's partial unique index holds on Postgres as well.
	dup, err := reg.Register(ctx, "copy.txt", testHash, constants.DocumentTypeHistorical)
	require.NoError(t, err)
	err = db.Model(&entity.Document{}).
		Where("document_id = ?", dup.DocumentID).
		Update("ingestion_status", string(constants.IngestionStatusSuccess)).Error
	assert.Error(t, err)

	var locations int64
	require.NoError(t, db.Model(&entity.LocationHistory{}).Count(&locations).Error)
	assert.EqualValues(t, 2, locations)
}
