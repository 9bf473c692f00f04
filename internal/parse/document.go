package parse

import (
	"encoding/json"
	"time"

	"github.com/pgale/abn-tracker/constants"
)

// Document is the extracted content of one registry extract, before any
// storage mapping. Fact slices keep document order.
type Document struct {
	ABN          string
	DocumentType constants.DocumentType

	Entity EntityDetails

	NameHistory     []NameFact
	StatusHistory   []StatusFact
	LocationHistory []LocationFact
	GSTHistory      []GSTFact

	BusinessNames     []StaticName
	TradingNames      []StaticName
	ASICRegistrations []ASICFact
}

// EntityDetails carries the identity block and footer bookkeeping dates.
type EntityDetails struct {
	EntityName          string
	EntityType          string // empty on older historical extracts
	FirstActiveDate     *time.Time
	RecordExtractedDate *time.Time
	ABNLastUpdated      *time.Time
}

type StatusFact struct {
	Status string
	Interval
}

type NameFact struct {
	EntityName string
	Interval
}

type LocationFact struct {
	State    string
	Postcode string
	Interval
}

type GSTFact struct {
	Status string
	Interval
}

// StaticName is a business or trading name: a start date at most, never an
// interval close.
type StaticName struct {
	Name string
	From *time.Time
}

type ASICFact struct {
	Type   string
	Number string
}

// Audit payload shapes. Dates re-serialize in the source layout and open
// interval ends re-serialize as the literal sentinel, so the payload reads
// like the document it came from.

type payloadEntity struct {
	EntityName          string `json:"entity_name"`
	EntityType          string `json:"entity_type,omitempty"`
	FirstActiveDate     string `json:"first_active_date,omitempty"`
	RecordExtractedDate string `json:"record_extracted_date,omitempty"`
	ABNLastUpdated      string `json:"abn_last_updated,omitempty"`
}

type payloadInterval struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
}

type payloadName struct {
	EntityName string `json:"entity_name"`
	payloadInterval
}

type payloadStatus struct {
	Status string `json:"status"`
	payloadInterval
}

type payloadLocation struct {
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	payloadInterval
}

type payloadStatic struct {
	Name string `json:"name"`
	From string `json:"from,omitempty"`
}

type payloadASIC struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type payload struct {
	ABN          string            `json:"abn"`
	DocumentType string            `json:"document_type"`
	Entity       payloadEntity     `json:"entity"`
	NameHistory  []payloadName     `json:"name_history"`
	Statuses     []payloadStatus   `json:"status_history"`
	Locations    []payloadLocation `json:"location_history"`
	GST          []payloadStatus   `json:"gst_history"`
	Business     []payloadStatic   `json:"business_names"`
	Trading      []payloadStatic   `json:"trading_names"`
	ASIC         []payloadASIC     `json:"asic_registrations"`
}

// Payload serializes the document for audit storage and schema validation.
func (d *Document) Payload() ([]byte, error) {
	p := payload{
		ABN:          d.ABN,
		DocumentType: string(d.DocumentType),
		Entity: payloadEntity{
			EntityName:          d.Entity.EntityName,
			EntityType:          d.Entity.EntityType,
			FirstActiveDate:     FormatDate(d.Entity.FirstActiveDate),
			RecordExtractedDate: FormatDate(d.Entity.RecordExtractedDate),
			ABNLastUpdated:      FormatDate(d.Entity.ABNLastUpdated),
		},
		NameHistory: make([]payloadName, 0, len(d.NameHistory)),
		Statuses:    make([]payloadStatus, 0, len(d.StatusHistory)),
		Locations:   make([]payloadLocation, 0, len(d.LocationHistory)),
		GST:         make([]payloadStatus, 0, len(d.GSTHistory)),
		Business:    make([]payloadStatic, 0, len(d.BusinessNames)),
		Trading:     make([]payloadStatic, 0, len(d.TradingNames)),
		ASIC:        make([]payloadASIC, 0, len(d.ASICRegistrations)),
	}
	for _, f := range d.NameHistory {
		p.NameHistory = append(p.NameHistory, payloadName{f.EntityName, intervalPayload(f.Interval)})
	}
	for _, f := range d.StatusHistory {
		p.Statuses = append(p.Statuses, payloadStatus{f.Status, intervalPayload(f.Interval)})
	}
	for _, f := range d.LocationHistory {
		p.Locations = append(p.Locations, payloadLocation{f.State, f.Postcode, intervalPayload(f.Interval)})
	}
	for _, f := range d.GSTHistory {
		p.GST = append(p.GST, payloadStatus{f.Status, intervalPayload(f.Interval)})
	}
	for _, n := range d.BusinessNames {
		p.Business = append(p.Business, payloadStatic{n.Name, FormatDate(n.From)})
	}
	for _, n := range d.TradingNames {
		p.Trading = append(p.Trading, payloadStatic{n.Name, FormatDate(n.From)})
	}
	for _, a := range d.ASICRegistrations {
		p.ASIC = append(p.ASIC, payloadASIC{a.Type, a.Number})
	}
	return json.Marshal(p)
}

func intervalPayload(iv Interval) payloadInterval {
	return payloadInterval{From: FormatDate(iv.From), To: iv.EndToken()}
}
