package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pgale/abn-tracker/internal/entity"
)

// StatusPeriod is one interval of a status-shaped stream (ABN status, GST).
type StatusPeriod struct {
	Status    string     `json:"status"`
	FromDate  *time.Time `json:"from_date"`
	ToDate    *time.Time `json:"to_date"`
	IsCurrent bool       `json:"is_current"`
}

// NamePeriod is one interval of the legal-name stream.
type NamePeriod struct {
	EntityName string     `json:"entity_name"`
	FromDate   *time.Time `json:"from_date"`
	ToDate     *time.Time `json:"to_date"`
	IsCurrent  bool       `json:"is_current"`
}

// LocationPeriod is one interval of the main-business-location stream.
type LocationPeriod struct {
	State     string     `json:"state"`
	Postcode  string     `json:"postcode"`
	FromDate  *time.Time `json:"from_date"`
	ToDate    *time.Time `json:"to_date"`
	IsCurrent bool       `json:"is_current"`
}

// NamedDate is a business or trading name with its registration date.
type NamedDate struct {
	Name     string     `json:"name"`
	FromDate *time.Time `json:"from_date"`
}

// ASICInfo is a companion ASIC identifier.
type ASICInfo struct {
	ASICType   string `json:"asic_type"`
	ASICNumber string `json:"asic_number"`
}

// SourceDocument identifies a registry document that contributed facts to
// this entity.
type SourceDocument struct {
	DocumentID   string    `json:"document_id"`
	Filename     string    `json:"filename"`
	DocumentType string    `json:"document_type"`
	IngestedAt   time.Time `json:"ingested_at"`
}

// EntityDetail is the complete profile of one ABN: the entity row plus
// every fact stream, newest first.
type EntityDetail struct {
	Entity            entity.ABNEntity `json:"entity"`
	StatusHistory     []StatusPeriod   `json:"status_history"`
	NameHistory       []NamePeriod     `json:"name_history"`
	LocationHistory   []LocationPeriod `json:"location_history"`
	GSTHistory        []StatusPeriod   `json:"gst_history"`
	BusinessNames     []NamedDate      `json:"business_names"`
	TradingNames      []NamedDate      `json:"trading_names"`
	ASICRegistrations []ASICInfo       `json:"asic_registrations"`
	SourceDocuments   []SourceDocument `json:"source_documents"`
}

// EntityDetail loads the full profile for an ABN, or nil when no entity
// with that number has been ingested.
func (s *Service) EntityDetail(ctx context.Context, abn string) (*EntityDetail, error) {
	db := s.db.WithContext(ctx)

	var ent entity.ABNEntity
	err := db.Where("abn = ?", abn).First(&ent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entity: %w", err)
	}
	detail := &EntityDetail{Entity: ent}

	err = db.Model(&entity.StatusHistory{}).
		Select("status, from_date, to_date, is_current").
		Where("abn = ?", abn).
		Order("from_date DESC").
		Scan(&detail.StatusHistory).Error
	if err != nil {
		return nil, fmt.Errorf("status history: %w", err)
	}

	err = db.Model(&entity.NameHistory{}).
		Select("entity_name, from_date, to_date, is_current").
		Where("abn = ?", abn).
		Order("from_date DESC").
		Scan(&detail.NameHistory).Error
	if err != nil {
		return nil, fmt.Errorf("name history: %w", err)
	}

	err = db.Model(&entity.LocationHistory{}).
		Select("state, postcode, from_date, to_date, is_current").
		Where("abn = ?", abn).
		Order("from_date DESC").
		Scan(&detail.LocationHistory).Error
	if err != nil {
		return nil, fmt.Errorf("location history: %w", err)
	}

	err = db.Model(&entity.GSTHistory{}).
		Select("status, from_date, to_date, is_current").
		Where("abn = ?", abn).
		Order("from_date DESC").
		Scan(&detail.GSTHistory).Error
	if err != nil {
		return nil, fmt.Errorf("gst history: %w", err)
	}

	err = db.Model(&entity.BusinessName{}).
		Select("business_name AS name, from_date").
		Where("abn = ?", abn).
		Order("from_date DESC").
		Scan(&detail.BusinessNames).Error
	if err != nil {
		return nil, fmt.Errorf("business names: %w", err)
	}

	err = db.Model(&entity.TradingName{}).
		Select("trading_name AS name, from_date").
		Where("abn = ?", abn).
		Order("from_date DESC").
		Scan(&detail.TradingNames).Error
	if err != nil {
		return nil, fmt.Errorf("trading names: %w", err)
	}

	err = db.Model(&entity.ASICRegistration{}).
		Select("asic_type, asic_number").
		Where("abn = ?", abn).
		Scan(&detail.ASICRegistrations).Error
	if err != nil {
		return nil, fmt.Errorf("asic registrations: %w", err)
	}

	err = db.Raw(`SELECT d.document_id, d.filename, d.document_type, d.ingested_at
		FROM abn_document_registry d
		WHERE d.document_id IN (
			SELECT source_document_id FROM abn_entity WHERE abn = ?
			UNION SELECT source_document_id FROM abn_status_history WHERE abn = ?
			UNION SELECT source_document_id FROM abn_name_history WHERE abn = ?
			UNION SELECT source_document_id FROM abn_location_history WHERE abn = ?
			UNION SELECT source_document_id FROM abn_gst_history WHERE abn = ?
			UNION SELECT source_document_id FROM abn_business_name WHERE abn = ?
			UNION SELECT source_document_id FROM abn_trading_name WHERE abn = ?
			UNION SELECT source_document_id FROM abn_asic_registration WHERE abn = ?
		)
		ORDER BY d.ingested_at`,
		abn, abn, abn, abn, abn, abn, abn, abn).
		Scan(&detail.SourceDocuments).Error
	if err != nil {
		return nil, fmt.Errorf("source documents: %w", err)
	}

	return detail, nil
}
