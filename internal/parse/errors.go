package parse

import (
	"fmt"
	"strings"
)

// LayoutError means the text does not look like the declared layout:
// one or more required section headers never matched.
type LayoutError struct {
	DocumentType string
	Missing      []string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s layout: missing section(s): %s", e.DocumentType, strings.Join(e.Missing, ", "))
}

// ExtractionError means a section was found but a required field could not
// be pulled out of it.
type ExtractionError struct {
	Field  string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Field, e.Reason)
}

// DateFormatError means a token that should have been a calendar date or
// the open-interval sentinel was neither.
type DateFormatError struct {
	Token string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("unparseable date token %q", e.Token)
}
