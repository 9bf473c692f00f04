package parse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgale/abn-tracker/constants"
)

func payloadMap(t *testing.T, doc *Document) map[string]any {
	t.Helper()
	data, err := doc.Payload()
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestPayloadCurrentShape(t *testing.T) {
	doc, err := Parse(currentText, constants.DocumentTypeCurrent)
	require.NoError(t, err)

	m := payloadMap(t, doc)
	assert.Equal(t, "99125524457", m["abn"])
	assert.Equal(t, "CURRENT", m["document_type"])

	ent := m["entity"].(map[string]any)
	assert.Equal(t, "Example Pty Ltd", ent["entity_name"])
	assert.Equal(t, "01 May 2010", ent["first_active_date"])
	assert.Equal(t, "21 Aug 2026", ent["record_extracted_date"])

	// Open interval ends serialize as the literal sentinel.
	statuses := m["status_history"].([]any)
	require.Len(t, statuses, 1)
	st := statuses[0].(map[string]any)
	assert.Equal(t, "Active", st["status"])
	assert.Equal(t, "(current)", st["to"])
	assert.Equal(t, "01 May 2010", st["from"])

	business := m["business_names"].([]any)
	require.Len(t, business, 1)
	bn := business[0].(map[string]any)
	assert.Equal(t, "Example Trading Co", bn["name"])
	assert.Equal(t, "12 Feb 2015", bn["from"])

	// Empty fact streams serialize as [], not null.
	trading, ok := m["trading_names"].([]any)
	require.True(t, ok)
	assert.Empty(t, trading)
}

func TestPayloadHistoricalClosedIntervals(t *testing.T) {
	doc, err := Parse(historicalText, constants.DocumentTypeHistorical)
	require.NoError(t, err)

	m := payloadMap(t, doc)
	assert.Equal(t, "HISTORICAL", m["document_type"])

	names := m["name_history"].([]any)
	require.Len(t, names, 2)
	open := names[0].(map[string]any)
	closed := names[1].(map[string]any)
	assert.Equal(t, "(current)", open["to"])
	assert.Equal(t, "15 Mar 2005", closed["from"])
	assert.Equal(t, "01 May 2010", closed["to"])

	asic := m["asic_registrations"].([]any)
	require.Len(t, asic, 1)
	reg := asic[0].(map[string]any)
	assert.Equal(t, "ACN", reg["type"])
	assert.Equal(t, "125524457", reg["number"])
}

func TestValidatePayloadAcceptsParsedDocuments(t *testing.T) {
	for _, tc := range []struct {
		name    string
		text    string
		docType constants.DocumentType
	}{
		{"current", currentText, constants.DocumentTypeCurrent},
		{"historical", historicalText, constants.DocumentTypeHistorical},
	} {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse(tc.text, tc.docType)
			require.NoError(t, err)
			data, err := doc.Payload()
			require.NoError(t, err)
			assert.NoError(t, ValidatePayload(data))
		})
	}
}

func TestValidatePayloadRejections(t *testing.T) {
	doc, err := Parse(currentText, constants.DocumentTypeCurrent)
	require.NoError(t, err)

	mutate := func(t *testing.T, fn func(m map[string]any)) []byte {
		t.Helper()
		m := payloadMap(t, doc)
		fn(m)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		return data
	}

	t.Run("short abn", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) { m["abn"] = "9912552445" })
		assert.Error(t, ValidatePayload(data))
	})
	t.Run("bad interval end token", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) {
			m["status_history"].([]any)[0].(map[string]any)["to"] = "soon"
		})
		assert.Error(t, ValidatePayload(data))
	})
	t.Run("iso date", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) {
			m["entity"].(map[string]any)["first_active_date"] = "2010-05-01"
		})
		assert.Error(t, ValidatePayload(data))
	})
	t.Run("missing fact stream", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) { delete(m, "gst_history") })
		assert.Error(t, ValidatePayload(data))
	})
	t.Run("unknown key", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) { m["extra"] = true })
		assert.Error(t, ValidatePayload(data))
	})
	t.Run("malformed json", func(t *testing.T) {
		assert.Error(t, ValidatePayload([]byte("{")))
	})
}
