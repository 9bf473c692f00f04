package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgale/abn-tracker/constants"
)

func TestSegmentCurrentLayout(t *testing.T) {
	segs, err := Segment(currentText, constants.DocumentTypeCurrent)
	require.NoError(t, err)

	for _, name := range []string{secTitle, secEntityName, secABNStatus, secEntityType, secGST, secLocation} {
		assert.True(t, segs.Has(name), "missing section %q", name)
	}

	sec, ok := segs.Get(secEntityName)
	require.True(t, ok)
	assert.Equal(t, "Example Pty Ltd", sec.Remainder)

	sec, ok = segs.Get(secABNStatus)
	require.True(t, ok)
	assert.Equal(t, "Active from 01 May 2010", sec.Remainder)

	sec, ok = segs.Get(secLocation)
	require.True(t, ok)
	assert.Equal(t, "NSW 2000", sec.Remainder)
}

func TestSegmentHistoricalLayout(t *testing.T) {
	segs, err := Segment(historicalText, constants.DocumentTypeHistorical)
	require.NoError(t, err)

	sec, ok := segs.Get(secEntityName)
	require.True(t, ok)
	assert.True(t, isColumnEcho(sec.Remainder))
	require.Len(t, sec.Lines, 2)
	assert.Contains(t, sec.Lines[0], "EXAMPLE PTY LTD")

	sec, ok = segs.Get(secASIC)
	require.True(t, ok)
	require.Len(t, sec.Lines, 1)
	assert.Equal(t, "ACN 125 524 457", sec.Lines[0])

	// Sections come back in document order.
	names := segs.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, secTitle, names[0])
}

func TestSegmentGSTHeaderSpellings(t *testing.T) {
	for _, header := range []string{
		"Goods & Services Tax (GST)",
		"Good & Services Tax (GST)",
		"Goods and Services Tax (GST)",
	} {
		t.Run(header, func(t *testing.T) {
			text := strings.Replace(historicalText, "Goods & Services Tax (GST)", header, 1)
			segs, err := Segment(text, constants.DocumentTypeHistorical)
			require.NoError(t, err)
			assert.True(t, segs.Has(secGST))
		})
	}
}

func TestSegmentMissingRequiredSection(t *testing.T) {
	text := strings.Replace(currentText, "Goods & Services Tax (GST): Registered from 01 May 2010", "", 1)
	_, err := Segment(text, constants.DocumentTypeCurrent)

	var le *LayoutError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, string(constants.DocumentTypeCurrent), le.DocumentType)
	assert.Contains(t, le.Missing, secGST)
	assert.Contains(t, le.Error(), secGST)
}

func TestSegmentRejectsLayoutMismatch(t *testing.T) {
	// A snapshot text declared as historical fails on the title header.
	_, err := Segment(currentText, constants.DocumentTypeHistorical)
	var le *LayoutError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Missing, secTitle)
}

func TestMatchHeader(t *testing.T) {
	rem, ok := matchHeader("Entity name: Example Pty Ltd", []string{"entity", "name"})
	require.True(t, ok)
	assert.Equal(t, "Example Pty Ltd", rem)

	rem, ok = matchHeader("Main business location               From           To", []string{"main", "business", "location"})
	require.True(t, ok)
	assert.True(t, isColumnEcho(rem))

	_, ok = matchHeader("Entity type: Australian Private Company", []string{"entity", "name"})
	assert.False(t, ok)
}
