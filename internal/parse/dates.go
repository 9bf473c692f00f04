package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/pgale/abn-tracker/constants"
)

// ParseDate parses the registry's calendar format, e.g. "05 Mar 1991".
func ParseDate(tok string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateLayout, strings.TrimSpace(tok), time.UTC)
	if err != nil {
		return time.Time{}, &DateFormatError{Token: strings.TrimSpace(tok)}
	}
	return t, nil
}

// parseOptionalDate is the lenient variant for footer bookkeeping lines
// (Record extracted, ABN last updated): anything unparseable becomes nil.
func parseOptionalDate(tok string) *time.Time {
	t, err := ParseDate(tok)
	if err != nil {
		return nil
	}
	return &t
}

// Interval is a half-open validity range. An open interval has no To date
// and IsCurrent set; the store writes it as to_date NULL.
type Interval struct {
	From      *time.Time
	To        *time.Time
	IsCurrent bool
}

// NormalizeEnd interprets a To-column token against an already parsed From
// date. The open-interval sentinel "(current)", a bare "none" and an empty
// token all mean the interval is still open; any other token must be a
// calendar date no earlier than From.
func NormalizeEnd(from *time.Time, tok string) (Interval, error) {
	trimmed := strings.ToLower(strings.TrimSpace(tok))
	if trimmed == "" || trimmed == "none" || strings.Contains(trimmed, constants.SentinelCurrent) {
		return Interval{From: from, IsCurrent: true}, nil
	}
	to, err := ParseDate(tok)
	if err != nil {
		return Interval{}, err
	}
	if from != nil && to.Before(*from) {
		return Interval{}, &ExtractionError{
			Field:  "interval",
			Reason: fmt.Sprintf("ends %s before it starts %s", to.Format(constants.DateLayout), from.Format(constants.DateLayout)),
		}
	}
	return Interval{From: from, To: &to}, nil
}

// EndToken re-serializes the interval end for the audit payload: open
// intervals print the sentinel, closed ones the calendar date.
func (iv Interval) EndToken() string {
	if iv.IsCurrent || iv.To == nil {
		return constants.SentinelCurrent
	}
	return iv.To.Format(constants.DateLayout)
}

// FormatDate prints a date in the registry layout; nil prints empty.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(constants.DateLayout)
}
