package entity

import "time"

// Temporal fact rows. Facts are insert-only and never reconciled across
// documents; an open interval is to_date NULL plus is_current true, never a
// sentinel string.

// StatusHistory is one ABN status interval (Active, Cancelled, ...).
type StatusHistory struct {
	ID               int64      `gorm:"primaryKey;column:id;autoIncrement"`
	ABN              string     `gorm:"column:abn;type:varchar(11);not null;index:idx_status_abn"`
	Status           string     `gorm:"column:status;not null"`
	FromDate         *time.Time `gorm:"column:from_date;type:date"`
	ToDate           *time.Time `gorm:"column:to_date;type:date"`
	IsCurrent        bool       `gorm:"column:is_current;not null"`
	SourceDocumentID string     `gorm:"column:source_document_id;type:varchar(36);not null"`
}

// TableName returns the GORM table name.
func (StatusHistory) TableName() string { return "abn_status_history" }

// NameHistory is one legal entity name interval.
type NameHistory struct {
	ID               int64      `gorm:"primaryKey;column:id;autoIncrement"`
	ABN              string     `gorm:"column:abn;type:varchar(11);not null;index:idx_name_abn"`
	EntityName       string     `gorm:"column:entity_name;not null"`
	FromDate         *time.Time `gorm:"column:from_date;type:date"`
	ToDate           *time.Time `gorm:"column:to_date;type:date"`
	IsCurrent        bool       `gorm:"column:is_current;not null"`
	SourceDocumentID string     `gorm:"column:source_document_id;type:varchar(36);not null"`
}

// TableName returns the GORM table name.
func (NameHistory) TableName() string { return "abn_name_history" }

// LocationHistory is one main-business-location interval (state + postcode).
type LocationHistory struct {
	ID               int64      `gorm:"primaryKey;column:id;autoIncrement"`
	ABN              string     `gorm:"column:abn;type:varchar(11);not null;index:idx_location_abn"`
	State            string     `gorm:"column:state;type:varchar(3);not null"`
	Postcode         string     `gorm:"column:postcode;type:varchar(4);not null"`
	FromDate         *time.Time `gorm:"column:from_date;type:date"`
	ToDate           *time.Time `gorm:"column:to_date;type:date"`
	IsCurrent        bool       `gorm:"column:is_current;not null"`
	SourceDocumentID string     `gorm:"column:source_document_id;type:varchar(36);not null"`
}

// TableName returns the GORM table name.
func (LocationHistory) TableName() string { return "abn_location_history" }

// GSTHistory is one GST registration interval. A document stating the entity
// was never registered yields a single open-ended "Not registered" row.
type GSTHistory struct {
	ID               int64      `gorm:"primaryKey;column:id;autoIncrement"`
	ABN              string     `gorm:"column:abn;type:varchar(11);not null;index:idx_gst_abn"`
	Status           string     `gorm:"column:status;not null"`
	FromDate         *time.Time `gorm:"column:from_date;type:date"`
	ToDate           *time.Time `gorm:"column:to_date;type:date"`
	IsCurrent        bool       `gorm:"column:is_current;not null"`
	SourceDocumentID string     `gorm:"column:source_document_id;type:varchar(36);not null"`
}

// TableName returns the GORM table name.
func (GSTHistory) TableName() string { return "abn_gst_history" }
