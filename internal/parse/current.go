package parse

import (
	"strings"
	"time"

	"github.com/pgale/abn-tracker/constants"
)

// currentExtractor reads the snapshot layout. Every fact stream yields a
// single open interval anchored at the date the ABN became active, since a
// snapshot only states what holds now.
type currentExtractor struct{}

func (currentExtractor) extract(segs *Segments) (*Document, error) {
	entityName := firstValue(segs, secEntityName)
	if entityName == "" {
		return nil, &ExtractionError{Field: "entity_name", Reason: "entity name section is empty"}
	}

	status, activeFrom, err := parseActiveFrom(firstValue(segs, secABNStatus))
	if err != nil {
		return nil, err
	}

	recorded, updated := footerDates(segs)
	doc := &Document{
		Entity: EntityDetails{
			EntityName:          entityName,
			EntityType:          firstValue(segs, secEntityType),
			FirstActiveDate:     activeFrom,
			RecordExtractedDate: recorded,
			ABNLastUpdated:      updated,
		},
	}

	open := Interval{From: activeFrom, IsCurrent: true}
	doc.NameHistory = append(doc.NameHistory, NameFact{EntityName: entityName, Interval: open})
	doc.StatusHistory = append(doc.StatusHistory, StatusFact{Status: status, Interval: open})

	m := reLoc.FindStringSubmatch(sectionContent(segs, secLocation))
	if m == nil {
		return nil, &ExtractionError{Field: "location", Reason: "no state and postcode in main business location"}
	}
	doc.LocationHistory = append(doc.LocationHistory, LocationFact{State: m[1], Postcode: m[2], Interval: open})

	gst, err := currentGST(sectionContent(segs, secGST))
	if err != nil {
		return nil, err
	}
	doc.GSTHistory = append(doc.GSTHistory, gst)

	doc.BusinessNames = nameList(segs, secBusinessNames, "No business names")
	doc.TradingNames = nameList(segs, secTradingNames, "No trading names")
	return doc, nil
}

// parseActiveFrom splits a snapshot status value such as
// "Active from 05 Mar 1991" into the status word and its start date.
func parseActiveFrom(val string) (string, *time.Time, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return "", nil, &ExtractionError{Field: "abn_status", Reason: "abn status section is empty"}
	}
	status := val
	var from *time.Time
	if i := strings.Index(strings.ToLower(val), " from "); i >= 0 {
		status = strings.TrimSpace(val[:i])
		t, err := ParseDate(canonDate(val[i+len(" from "):]))
		if err != nil {
			return "", nil, err
		}
		from = &t
	}
	return status, from, nil
}

// currentGST reads the snapshot GST block. Registered entities carry a
// "Registered from <date>" line; anything else becomes the distinguished
// not-registered value so the stream is never empty.
func currentGST(text string) (GSTFact, error) {
	if text == "" || strings.Contains(text, constants.GSTNotRegistered) {
		return GSTFact{Status: constants.GSTNotRegistered, Interval: Interval{IsCurrent: true}}, nil
	}
	for _, line := range strings.Split(text, "\n") {
		i := strings.Index(line, "Registered from")
		if i < 0 {
			continue
		}
		status := strings.TrimSpace(line[:i])
		if status == "" {
			status = "Registered"
		}
		t, err := ParseDate(canonDate(line[i+len("Registered from"):]))
		if err != nil {
			return GSTFact{}, err
		}
		return GSTFact{Status: status, Interval: Interval{From: &t, IsCurrent: true}}, nil
	}
	return GSTFact{Status: constants.GSTNotRegistered, Interval: Interval{IsCurrent: true}}, nil
}

// nameList reads a business or trading names block. An absence marker such
// as "No business names found" means an empty list, as does a section the
// document simply omits.
func nameList(segs *Segments, name, absentMarker string) []StaticName {
	text := sectionContent(segs, name)
	if text == "" || strings.Contains(text, absentMarker) {
		return nil
	}
	var names []StaticName
	for _, line := range strings.Split(text, "\n") {
		m := reRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		names = append(names, StaticName{Name: strings.TrimSpace(m[1]), From: parseOptionalDate(canonDate(m[2]))})
	}
	return names
}
