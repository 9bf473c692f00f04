package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pgale/abn-tracker/constants"
	"github.com/pgale/abn-tracker/internal/entity"
)

// DocumentRegistry is the append-only ledger of processing attempts. A
// SUCCESS row permanently settles its hash; FAILED rows leave the hash
// retryable in a later run.
type DocumentRegistry interface {
	FindSuccess(ctx context.Context, hash string) (*entity.Document, error)
	Register(ctx context.Context, filename, hash string, docType constants.DocumentType) (*entity.Document, error)
	MarkFailed(ctx context.Context, documentID, reason string) error
	GetByID(ctx context.Context, documentID string) (*entity.Document, error)
}

type documentRegistry struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewDocumentRegistry(db *gorm.DB, logger *slog.Logger) DocumentRegistry {
	return &documentRegistry{
		db:     db,
		logger: logger,
	}
}

// FindSuccess returns the successful attempt for a hash, or nil when the
// hash is still unsettled.
func (r *documentRegistry) FindSuccess(ctx context.Context, hash string) (*entity.Document, error) {
	var doc entity.Document
	err := r.db.WithContext(ctx).
		Where("file_hash_sha256 = ? AND ingestion_status = ?", hash, constants.IngestionStatusSuccess).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to look up document by hash", "hash", hash, "error", err)
		return nil, err
	}
	return &doc, nil
}

// Register appends a new attempt row before parsing begins. The row starts
// FAILED so an interrupted run still leaves a retryable record behind.
func (r *documentRegistry) Register(ctx context.Context, filename, hash string, docType constants.DocumentType) (*entity.Document, error) {
	doc := &entity.Document{
		DocumentID:      uuid.NewString(),
		Filename:        filename,
		FileHashSHA256:  hash,
		DocumentType:    string(docType),
		IngestionStatus: string(constants.IngestionStatusFailed),
		IngestedAt:      time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		r.logger.Error("failed to register document", "filename", filename, "hash", hash, "error", err)
		return nil, err
	}
	return doc, nil
}

// MarkFailed stamps the attempt with its error text.
func (r *documentRegistry) MarkFailed(ctx context.Context, documentID, reason string) error {
	err := r.db.WithContext(ctx).Model(&entity.Document{}).
		Where("document_id = ?", documentID).
		Updates(map[string]any{
			"ingestion_status": string(constants.IngestionStatusFailed),
			"error_message":    reason,
			"ingested_at":      time.Now().UTC(),
		}).Error
	if err != nil {
		r.logger.Error("failed to mark document failed", "document_id", documentID, "error", err)
	}
	return err
}

func (r *documentRegistry) GetByID(ctx context.Context, documentID string) (*entity.Document, error) {
	var doc entity.Document
	err := r.db.WithContext(ctx).Where("document_id = ?", documentID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get document", "document_id", documentID, "error", err)
		return nil, err
	}
	return &doc, nil
}
