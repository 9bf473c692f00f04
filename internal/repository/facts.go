package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pgale/abn-tracker/constants"
	"github.com/pgale/abn-tracker/internal/entity"
	"github.com/pgale/abn-tracker/internal/parse"
)

// FactWriter commits one parsed document as a single transaction.
type FactWriter interface {
	CommitDocument(ctx context.Context, documentID string, doc *parse.Document, payload []byte) error
}

type factWriter struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewFactWriter(db *gorm.DB, logger *slog.Logger) FactWriter {
	return &factWriter{
		db:     db,
		logger: logger,
	}
}

// CommitDocument writes the entity row (first writer wins), every fact row,
// and the registry SUCCESS flip atomically. If any insert fails the whole
// document rolls back and the attempt row stays FAILED.
func (w *factWriter) CommitDocument(ctx context.Context, documentID string, doc *parse.Document, payload []byte) error {
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ent := &entity.ABNEntity{
			ABN:                 doc.ABN,
			EntityName:          doc.Entity.EntityName,
			EntityType:          optional(doc.Entity.EntityType),
			FirstActiveDate:     doc.Entity.FirstActiveDate,
			RecordExtractedDate: doc.Entity.RecordExtractedDate,
			ABNLastUpdated:      doc.Entity.ABNLastUpdated,
			SourceDocumentID:    documentID,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(ent).Error; err != nil {
			return fmt.Errorf("insert entity: %w", err)
		}

		if rows := statusRows(documentID, doc); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert status history: %w", err)
			}
		}
		if rows := nameRows(documentID, doc); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert name history: %w", err)
			}
		}
		if rows := locationRows(documentID, doc); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert location history: %w", err)
			}
		}
		if rows := gstRows(documentID, doc); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert gst history: %w", err)
			}
		}
		if rows := businessNameRows(documentID, doc); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert business names: %w", err)
			}
		}
		if rows := tradingNameRows(documentID, doc); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert trading names: %w", err)
			}
		}
		if rows := asicRows(documentID, doc); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert asic registrations: %w", err)
			}
		}

		res := tx.Model(&entity.Document{}).
			Where("document_id = ?", documentID).
			Updates(map[string]any{
				"ingestion_status": string(constants.IngestionStatusSuccess),
				"error_message":    nil,
				"parsed_payload":   entity.RawJSON(payload),
				"ingested_at":      time.Now().UTC(),
			})
		if res.Error != nil {
			return fmt.Errorf("mark success: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("mark success: attempt row %s not found", documentID)
		}
		return nil
	})
	if err != nil {
		w.logger.Error("failed to commit document", "document_id", documentID, "abn", doc.ABN, "error", err)
		return err
	}
	return nil
}

func statusRows(documentID string, doc *parse.Document) []entity.StatusHistory {
	rows := make([]entity.StatusHistory, 0, len(doc.StatusHistory))
	for _, f := range doc.StatusHistory {
		rows = append(rows, entity.StatusHistory{
			ABN:              doc.ABN,
			Status:           f.Status,
			FromDate:         f.From,
			ToDate:           f.To,
			IsCurrent:        f.IsCurrent,
			SourceDocumentID: documentID,
		})
	}
	return rows
}

func nameRows(documentID string, doc *parse.Document) []entity.NameHistory {
	rows := make([]entity.NameHistory, 0, len(doc.NameHistory))
	for _, f := range doc.NameHistory {
		rows = append(rows, entity.NameHistory{
			ABN:              doc.ABN,
			EntityName:       f.EntityName,
			FromDate:         f.From,
			ToDate:           f.To,
			IsCurrent:        f.IsCurrent,
			SourceDocumentID: documentID,
		})
	}
	return rows
}

func locationRows(documentID string, doc *parse.Document) []entity.LocationHistory {
	rows := make([]entity.LocationHistory, 0, len(doc.LocationHistory))
	for _, f := range doc.LocationHistory {
		rows = append(rows, entity.LocationHistory{
			ABN:              doc.ABN,
			State:            f.State,
			Postcode:         f.Postcode,
			FromDate:         f.From,
			ToDate:           f.To,
			IsCurrent:        f.IsCurrent,
			SourceDocumentID: documentID,
		})
	}
	return rows
}

func gstRows(documentID string, doc *parse.Document) []entity.GSTHistory {
	rows := make([]entity.GSTHistory, 0, len(doc.GSTHistory))
	for _, f := range doc.GSTHistory {
		rows = append(rows, entity.GSTHistory{
			ABN:              doc.ABN,
			Status:           f.Status,
			FromDate:         f.From,
			ToDate:           f.To,
			IsCurrent:        f.IsCurrent,
			SourceDocumentID: documentID,
		})
	}
	return rows
}

func businessNameRows(documentID string, doc *parse.Document) []entity.BusinessName {
	rows := make([]entity.BusinessName, 0, len(doc.BusinessNames))
	for _, n := range doc.BusinessNames {
		rows = append(rows, entity.BusinessName{
			ABN:              doc.ABN,
			BusinessName:     n.Name,
			FromDate:         n.From,
			SourceDocumentID: documentID,
		})
	}
	return rows
}

func tradingNameRows(documentID string, doc *parse.Document) []entity.TradingName {
	rows := make([]entity.TradingName, 0, len(doc.TradingNames))
	for _, n := range doc.TradingNames {
		rows = append(rows, entity.TradingName{
			ABN:              doc.ABN,
			TradingName:      n.Name,
			FromDate:         n.From,
			SourceDocumentID: documentID,
		})
	}
	return rows
}

func asicRows(documentID string, doc *parse.Document) []entity.ASICRegistration {
	rows := make([]entity.ASICRegistration, 0, len(doc.ASICRegistrations))
	for _, a := range doc.ASICRegistrations {
		rows = append(rows, entity.ASICRegistration{
			ABN:              doc.ABN,
			ASICType:         a.Type,
			ASICNumber:       a.Number,
			SourceDocumentID: documentID,
		})
	}
	return rows
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
