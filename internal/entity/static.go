package entity

import "time"

// Static fact rows carry a start date at most; the registry never closes them.

// BusinessName is a registered business name.
type BusinessName struct {
	ID               int64      `gorm:"primaryKey;column:id;autoIncrement"`
	ABN              string     `gorm:"column:abn;type:varchar(11);not null;index:idx_business_name_abn"`
	BusinessName     string     `gorm:"column:business_name;not null"`
	FromDate         *time.Time `gorm:"column:from_date;type:date"`
	SourceDocumentID string     `gorm:"column:source_document_id;type:varchar(36);not null"`
}

// TableName returns the GORM table name.
func (BusinessName) TableName() string { return "abn_business_name" }

// TradingName is a legacy trading name (the register stopped collecting
// these in 2023; historical extracts still print them).
type TradingName struct {
	ID               int64      `gorm:"primaryKey;column:id;autoIncrement"`
	ABN              string     `gorm:"column:abn;type:varchar(11);not null;index:idx_trading_name_abn"`
	TradingName      string     `gorm:"column:trading_name;not null"`
	FromDate         *time.Time `gorm:"column:from_date;type:date"`
	SourceDocumentID string     `gorm:"column:source_document_id;type:varchar(36);not null"`
}

// TableName returns the GORM table name.
func (TradingName) TableName() string { return "abn_trading_name" }

// ASICRegistration is a companion ASIC identifier (ACN/ARBN and number).
type ASICRegistration struct {
	ID               int64  `gorm:"primaryKey;column:id;autoIncrement"`
	ABN              string `gorm:"column:abn;type:varchar(11);not null;index:idx_asic_abn"`
	ASICType         string `gorm:"column:asic_type;type:varchar(4);not null"`
	ASICNumber       string `gorm:"column:asic_number;not null"`
	SourceDocumentID string `gorm:"column:source_document_id;type:varchar(36);not null"`
}

// TableName returns the GORM table name.
func (ASICRegistration) TableName() string { return "abn_asic_registration" }

// AllModels lists every persisted model for AutoMigrate-driven stores.
func AllModels() []any {
	return []any{
		&ABNEntity{},
		&Document{},
		&StatusHistory{},
		&NameHistory{},
		&LocationHistory{},
		&GSTHistory{},
		&BusinessName{},
		&TradingName{},
		&ASICRegistration{},
	}
}
