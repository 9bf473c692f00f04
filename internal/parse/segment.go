package parse

import (
	"strings"
	"unicode"

	"github.com/pgale/abn-tracker/constants"
)

// Canonical section names. Extractors look sections up by these keys.
const (
	secTitle           = "title"
	secEntityName      = "entity name"
	secABNStatus       = "abn status"
	secEntityType      = "entity type"
	secGST             = "goods and services tax"
	secLocation        = "main business location"
	secBusinessNames   = "business names"
	secTradingNames    = "trading names"
	secASIC            = "asic registration"
	secRecordExtracted = "record extracted"
	secABNLastUpdated  = "abn last updated"
	secDisclaimer      = "disclaimer"
	secWarning         = "warning statement"
)

// headerSpec declares how one section header is recognized: its keywords
// must appear in order among the line's tokens, case and punctuation
// ignored. That single rule absorbs the real-world variants: trailing
// "From To" column echoes, "Good(s) & Services Tax (GST)" spellings, and
// "Label: value" headers carrying their value on the same line.
type headerSpec struct {
	name     string
	keywords []string
	required bool
}

func specsFor(docType constants.DocumentType) []headerSpec {
	if docType == constants.DocumentTypeCurrent {
		return []headerSpec{
			{secTitle, []string{"current", "details", "for", "abn"}, true},
			{secEntityName, []string{"entity", "name"}, true},
			{secABNStatus, []string{"abn", "status"}, true},
			{secEntityType, []string{"entity", "type"}, true},
			{secGST, []string{"services", "tax", "gst"}, true},
			{secLocation, []string{"main", "business", "location"}, true},
			{secBusinessNames, []string{"business", "name"}, false},
			{secTradingNames, []string{"trading", "name"}, false},
			{secASIC, []string{"asic", "registration"}, false},
			{secRecordExtracted, []string{"record", "extracted"}, false},
			{secABNLastUpdated, []string{"abn", "last", "updated"}, false},
			{secDisclaimer, []string{"disclaimer"}, false},
			{secWarning, []string{"warning", "statement"}, false},
		}
	}
	return []headerSpec{
		{secTitle, []string{"historical", "details", "for", "abn"}, true},
		{secEntityName, []string{"entity", "name"}, true},
		{secABNStatus, []string{"abn", "status"}, true},
		{secEntityType, []string{"entity", "type"}, false},
		{secGST, []string{"services", "tax", "gst"}, true},
		{secLocation, []string{"main", "business", "location"}, true},
		{secBusinessNames, []string{"business", "name"}, false},
		{secTradingNames, []string{"trading", "name"}, false},
		{secASIC, []string{"asic", "registration"}, false},
		{secRecordExtracted, []string{"record", "extracted"}, false},
		{secABNLastUpdated, []string{"abn", "last", "updated"}, false},
		{secDisclaimer, []string{"disclaimer"}, false},
		{secWarning, []string{"warning", "statement"}, false},
	}
}

// Section is one labelled block of document text.
type Section struct {
	Name      string
	Remainder string   // text on the header line after the matched keywords
	Lines     []string // non-empty lines until the next recognized header
}

// Segments holds recognized sections in document order.
type Segments struct {
	byName map[string]*Section
	order  []string
}

func (s *Segments) Get(name string) (*Section, bool) {
	sec, ok := s.byName[name]
	return sec, ok
}

func (s *Segments) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Names returns the section names in the order they appeared.
func (s *Segments) Names() []string {
	return s.order
}

// Segment splits document text into the declared layout's sections. Each
// header is recognized at most once, at its first occurrence; a section
// runs until the next recognized header or end of text. Required headers
// that never match make the whole text a LayoutError.
func Segment(text string, docType constants.DocumentType) (*Segments, error) {
	specs := specsFor(docType)
	matched := make([]bool, len(specs))
	segs := &Segments{byName: make(map[string]*Section)}

	var open *Section
	for _, line := range strings.Split(text, "\n") {
		hit := false
		for i := range specs {
			if matched[i] {
				continue
			}
			rem, ok := matchHeader(line, specs[i].keywords)
			if !ok {
				continue
			}
			matched[i] = true
			sec := &Section{Name: specs[i].name, Remainder: rem}
			segs.byName[sec.Name] = sec
			segs.order = append(segs.order, sec.Name)
			open = sec
			hit = true
			break
		}
		if hit {
			continue
		}
		if open != nil {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				open.Lines = append(open.Lines, trimmed)
			}
		}
	}

	var missing []string
	for i, sp := range specs {
		if sp.required && !matched[i] {
			missing = append(missing, sp.name)
		}
	}
	if len(missing) > 0 {
		return nil, &LayoutError{DocumentType: string(docType), Missing: missing}
	}
	return segs, nil
}

type token struct {
	text string
	end  int // byte offset just past the token in the original line
}

func tokenize(line string) []token {
	var toks []token
	var b strings.Builder
	start := -1
	for i, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
				b.Reset()
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if start >= 0 {
			toks = append(toks, token{text: b.String(), end: i})
			start = -1
		}
	}
	if start >= 0 {
		toks = append(toks, token{text: b.String(), end: len(line)})
	}
	return toks
}

// matchHeader reports whether the keywords appear in order among the line's
// tokens, and returns the text following the last matched keyword.
func matchHeader(line string, keywords []string) (string, bool) {
	ki := 0
	end := 0
	for _, tk := range tokenize(line) {
		if tk.text != keywords[ki] {
			continue
		}
		ki++
		end = tk.end
		if ki == len(keywords) {
			break
		}
	}
	if ki < len(keywords) {
		return "", false
	}
	rem := strings.TrimSpace(strings.TrimLeft(line[end:], " \t:)"))
	return rem, true
}

// firstValue returns the header-line remainder if present, otherwise the
// first content line. Handles both "Label: value" and label-then-line
// section shapes.
func firstValue(segs *Segments, name string) string {
	sec, ok := segs.Get(name)
	if !ok {
		return ""
	}
	if sec.Remainder != "" {
		return sec.Remainder
	}
	if len(sec.Lines) > 0 {
		return sec.Lines[0]
	}
	return ""
}

// sectionContent joins the remainder and content lines of a section.
func sectionContent(segs *Segments, name string) string {
	sec, ok := segs.Get(name)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(sec.Lines)+1)
	if sec.Remainder != "" {
		parts = append(parts, sec.Remainder)
	}
	parts = append(parts, sec.Lines...)
	return strings.Join(parts, "\n")
}
