package entity

import "time"

// ABNEntity is one registered business entity, keyed by its 11-digit ABN
// (stored compact, no spaces). Rows are insert-only: the first document to
// mention an ABN writes the row and later documents leave it untouched.
type ABNEntity struct {
	ABN                 string     `gorm:"primaryKey;column:abn;type:varchar(11)" json:"abn"`
	EntityName          string     `gorm:"column:entity_name;not null" json:"entity_name"`
	EntityType          *string    `gorm:"column:entity_type" json:"entity_type"`
	FirstActiveDate     *time.Time `gorm:"column:first_active_date;type:date" json:"first_active_date"`
	RecordExtractedDate *time.Time `gorm:"column:record_extracted_date;type:date" json:"record_extracted_date"`
	ABNLastUpdated      *time.Time `gorm:"column:abn_last_updated;type:date" json:"abn_last_updated"`
	SourceDocumentID    string     `gorm:"column:source_document_id;type:varchar(36);not null" json:"source_document_id"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the GORM table name.
func (ABNEntity) TableName() string { return "abn_entity" }
