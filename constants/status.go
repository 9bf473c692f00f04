package constants

// DocumentType identifies which registry extract layout a document uses.
type DocumentType string

// Stable values (store these exact strings in DB).
const (
	DocumentTypeCurrent    DocumentType = "CURRENT"    // point-in-time snapshot
	DocumentTypeHistorical DocumentType = "HISTORICAL" // full interval history
)

// IngestionStatus is the canonical outcome for rows in abn_document_registry.
type IngestionStatus string

// Stable values (store these exact strings in DB).
const (
	IngestionStatusSuccess IngestionStatus = "SUCCESS" // facts committed, hash is settled
	IngestionStatusFailed  IngestionStatus = "FAILED"  // attempt recorded, hash stays retryable
)
