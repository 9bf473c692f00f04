package parse

import (
	"strings"
	"time"

	"github.com/pgale/abn-tracker/constants"
)

// historicalExtractor reads the interval-table layout. Each fact stream is
// a sequence of rows whose To column holds either a calendar date or the
// open sentinel; rows keep document order and are trusted as stated.
type historicalExtractor struct{}

func (historicalExtractor) extract(segs *Segments) (*Document, error) {
	doc := &Document{}

	var firstName string
	for _, line := range rowLines(segs, secEntityName) {
		m := reRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		iv, err := rowInterval(m[2], m[3])
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(m[1])
		if firstName == "" {
			firstName = name
		}
		doc.NameHistory = append(doc.NameHistory, NameFact{EntityName: name, Interval: iv})
	}
	if firstName == "" {
		return nil, &ExtractionError{Field: "entity_name", Reason: "no rows in entity name history"}
	}

	var firstActive *time.Time
	for _, line := range rowLines(segs, secABNStatus) {
		m := reRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		iv, err := rowInterval(m[2], m[3])
		if err != nil {
			return nil, err
		}
		status := strings.TrimSpace(m[1])
		doc.StatusHistory = append(doc.StatusHistory, StatusFact{Status: status, Interval: iv})
		if strings.EqualFold(status, "active") && iv.From != nil {
			if firstActive == nil || iv.From.Before(*firstActive) {
				firstActive = iv.From
			}
		}
	}

	for _, line := range rowLines(segs, secLocation) {
		m := reLocRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		iv, err := rowInterval(m[3], m[4])
		if err != nil {
			return nil, err
		}
		doc.LocationHistory = append(doc.LocationHistory, LocationFact{State: m[1], Postcode: m[2], Interval: iv})
	}

	gst, err := historicalGST(segs)
	if err != nil {
		return nil, err
	}
	doc.GSTHistory = gst

	doc.TradingNames = historicalTradingNames(segs)
	doc.ASICRegistrations = asicFacts(segs)

	recorded, updated := footerDates(segs)
	doc.Entity = EntityDetails{
		EntityName:          firstName,
		EntityType:          firstValue(segs, secEntityType),
		FirstActiveDate:     firstActive,
		RecordExtractedDate: recorded,
		ABNLastUpdated:      updated,
	}
	return doc, nil
}

// historicalGST reads the GST interval table. A section stating no
// registrations ever occurred yields one open fact carrying the
// distinguished not-registered value instead of an empty stream.
func historicalGST(segs *Segments) ([]GSTFact, error) {
	if strings.Contains(sectionContent(segs, secGST), "No current or historical GST") {
		return []GSTFact{{Status: constants.GSTNotRegistered, Interval: Interval{IsCurrent: true}}}, nil
	}
	var facts []GSTFact
	for _, line := range rowLines(segs, secGST) {
		m := reRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		iv, err := rowInterval(m[2], m[3])
		if err != nil {
			return nil, err
		}
		facts = append(facts, GSTFact{Status: strings.TrimSpace(m[1]), Interval: iv})
	}
	return facts, nil
}

// historicalTradingNames reads the trading names table, skipping the
// collection-stopped notice and its business-name cross reference lines.
// Only the start date of each name is kept.
func historicalTradingNames(segs *Segments) []StaticName {
	if strings.Contains(sectionContent(segs, secTradingNames), "stopped collecting") {
		return nil
	}
	var names []StaticName
	for _, line := range rowLines(segs, secTradingNames) {
		if strings.Contains(line, "ABR stopped") || strings.Contains(strings.ToLower(line), "business name") {
			continue
		}
		m := reRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		names = append(names, StaticName{Name: strings.TrimSpace(m[1]), From: parseOptionalDate(canonDate(m[2]))})
	}
	return names
}
