package entity

import "time"

// Document is one ingestion attempt in the abn_document_registry ledger.
// Attempts accumulate per content hash; only a SUCCESS row settles a hash.
// The matching partial unique index lives in the migrations (and is created
// alongside AutoMigrate for in-memory stores).
type Document struct {
	DocumentID      string    `gorm:"primaryKey;column:document_id;type:varchar(36)"`
	Filename        string    `gorm:"column:filename;not null"`
	FileHashSHA256  string    `gorm:"column:file_hash_sha256;type:char(64);not null;index:idx_document_hash"`
	DocumentType    string    `gorm:"column:document_type;not null"`
	IngestionStatus string    `gorm:"column:ingestion_status;not null"`
	ErrorMessage    *string   `gorm:"column:error_message"`
	ParsedPayload   RawJSON   `gorm:"column:parsed_payload;type:text"`
	IngestedAt      time.Time `gorm:"column:ingested_at;not null"`
}

// TableName returns the GORM table name.
func (Document) TableName() string { return "abn_document_registry" }
