package parse

import (
	"regexp"
	"strings"
	"time"

	"github.com/pgale/abn-tracker/constants"
)

// extractor turns segmented text into a Document. One implementation per
// registry extract layout.
type extractor interface {
	extract(segs *Segments) (*Document, error)
}

var (
	reABN    = regexp.MustCompile(`\d{2}\s*\d{3}\s*\d{3}\s*\d{3}`)
	reRow    = regexp.MustCompile(`^(.+?)\s+(\d{2}\s+[A-Z][a-z]{2}\s+\d{4})\s*(.*)$`)
	reLocRow = regexp.MustCompile(`^([A-Z]{2,3})\s+(\d{4})\s+(\d{2}\s+[A-Z][a-z]{2}\s+\d{4})\s*(.*)$`)
	reLoc    = regexp.MustCompile(`([A-Z]{2,3})\s*(\d{4})`)
	reASIC   = regexp.MustCompile(`([A-Z]{3})\s+([\d\s]+)`)
)

// Parse turns extracted document text into a structured Document. The
// declared type picks the layout: current extracts expose one open fact per
// stream, historical extracts carry full interval tables. A current file
// whose text is actually a historical extract (or vice versa) fails the
// title check in Segment and surfaces as a LayoutError.
func Parse(text string, docType constants.DocumentType) (*Document, error) {
	segs, err := Segment(text, docType)
	if err != nil {
		return nil, err
	}
	abn, err := extractABN(segs)
	if err != nil {
		return nil, err
	}

	var ex extractor
	switch docType {
	case constants.DocumentTypeCurrent:
		ex = currentExtractor{}
	default:
		ex = historicalExtractor{}
	}
	doc, err := ex.extract(segs)
	if err != nil {
		return nil, err
	}
	doc.ABN = abn
	doc.DocumentType = docType
	return doc, nil
}

// extractABN pulls the 11-digit identifier from the title section,
// tolerating the printed "NN NNN NNN NNN" grouping.
func extractABN(segs *Segments) (string, error) {
	m := reABN.FindString(sectionContent(segs, secTitle))
	if m == "" {
		return "", &ExtractionError{Field: "abn", Reason: "no 11 digit number after the title"}
	}
	return strings.Join(strings.Fields(m), ""), nil
}

// canonDate collapses whitespace runs inside a date token; layout-mode text
// extraction pads columns with extra spaces.
func canonDate(tok string) string {
	return strings.Join(strings.Fields(tok), " ")
}

// rowInterval builds the interval of one history row from its From date and
// To token.
func rowInterval(fromTok, toTok string) (Interval, error) {
	from, err := ParseDate(canonDate(fromTok))
	if err != nil {
		return Interval{}, err
	}
	return NormalizeEnd(&from, canonDate(toTok))
}

// rowLines returns the candidate fact rows of a section: the header-line
// remainder plus content lines, minus "From To" column echoes.
func rowLines(segs *Segments, name string) []string {
	sec, ok := segs.Get(name)
	if !ok {
		return nil
	}
	lines := make([]string, 0, len(sec.Lines)+1)
	if sec.Remainder != "" {
		lines = append(lines, sec.Remainder)
	}
	lines = append(lines, sec.Lines...)
	out := lines[:0]
	for _, l := range lines {
		if isColumnEcho(l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func isColumnEcho(line string) bool {
	return strings.Contains(strings.Join(strings.Fields(line), " "), "From To")
}

// footerDates reads the bookkeeping lines at the bottom of an extract.
// They are informational, so unparseable values become nil rather than
// failing the document.
func footerDates(segs *Segments) (recorded, updated *time.Time) {
	recorded = parseOptionalDate(canonDate(firstValue(segs, secRecordExtracted)))
	updated = parseOptionalDate(canonDate(firstValue(segs, secABNLastUpdated)))
	return recorded, updated
}

// asicFacts reads the ASIC registration block, e.g. "ACN 002 249 981".
func asicFacts(segs *Segments) []ASICFact {
	for _, line := range rowLines(segs, secASIC) {
		if m := reASIC.FindStringSubmatch(line); m != nil {
			return []ASICFact{{Type: m[1], Number: strings.Join(strings.Fields(m[2]), "")}}
		}
	}
	return nil
}
