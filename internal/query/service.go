package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/pgale/abn-tracker/internal/entity"
)

// Service answers read-only dashboard and analytics queries. It never
// writes; the ingest pipeline owns the write path.
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// categoryCaseTemplate folds free-text entity types into the six dashboard
// categories. {col} is substituted so the expression works bare or aliased.
const categoryCaseTemplate = `CASE
	WHEN LOWER({col}) LIKE '%individual%' OR LOWER({col}) LIKE '%sole trader%' THEN 'Individual / Sole Trader'
	WHEN LOWER({col}) LIKE '%partnership%' THEN 'Partnership'
	WHEN LOWER({col}) LIKE '%trust%' THEN 'Trust'
	WHEN LOWER({col}) LIKE '%company%' OR LOWER({col}) LIKE '%pty%' OR LOWER({col}) LIKE '%ltd%' THEN 'Company'
	WHEN LOWER({col}) LIKE '%super%' OR LOWER({col}) LIKE '%fund%' THEN 'Superannuation Fund'
	ELSE 'Other'
END`

func categoryCase(col string) string {
	return strings.ReplaceAll(categoryCaseTemplate, "{col}", col)
}

// CategoryCount is one slice of the entity-type breakdown.
type CategoryCount struct {
	EntityType string `json:"entity_type"`
	Count      int64  `json:"count"`
}

// StateCount is one slice of the state breakdown.
type StateCount struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}

// DashboardStats is the summary block on the dashboard landing page.
type DashboardStats struct {
	TotalEntities     int64            `json:"total_entities"`
	TotalDocuments    int64            `json:"total_documents"`
	DocumentStatus    map[string]int64 `json:"document_status"`
	EntityTypes       []CategoryCount  `json:"entity_types"`
	StateDistribution []StateCount     `json:"state_distribution"`
	GSTCurrent        int64            `json:"gst_current"`
	GSTTotal          int64            `json:"gst_total"`
}

// DashboardStats aggregates entity, registry and fact counts in one call.
func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{DocumentStatus: map[string]int64{}}
	db := s.db.WithContext(ctx)

	if err := db.Model(&entity.ABNEntity{}).Count(&stats.TotalEntities).Error; err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}
	if err := db.Model(&entity.Document{}).Count(&stats.TotalDocuments).Error; err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	var byStatus []struct {
		IngestionStatus string
		Count           int64
	}
	err := db.Model(&entity.Document{}).
		Select("ingestion_status, COUNT(*) AS count").
		Group("ingestion_status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, fmt.Errorf("document status counts: %w", err)
	}
	for _, row := range byStatus {
		stats.DocumentStatus[row.IngestionStatus] = row.Count
	}

	caseExpr := categoryCase("entity_type")
	err = db.Model(&entity.ABNEntity{}).
		Select(caseExpr + " AS entity_type, COUNT(*) AS count").
		Group(caseExpr).
		Order("count DESC").
		Scan(&stats.EntityTypes).Error
	if err != nil {
		return nil, fmt.Errorf("entity type counts: %w", err)
	}

	err = db.Model(&entity.LocationHistory{}).
		Select("state, COUNT(*) AS count").
		Where("is_current = ?", true).
		Group("state").
		Order("count DESC").
		Scan(&stats.StateDistribution).Error
	if err != nil {
		return nil, fmt.Errorf("state counts: %w", err)
	}

	var gst struct {
		CurrentGST int64
		TotalGST   int64
	}
	err = db.Model(&entity.GSTHistory{}).
		Select("COALESCE(SUM(CASE WHEN is_current THEN 1 ELSE 0 END), 0) AS current_gst, COUNT(*) AS total_gst").
		Scan(&gst).Error
	if err != nil {
		return nil, fmt.Errorf("gst counts: %w", err)
	}
	stats.GSTCurrent = gst.CurrentGST
	stats.GSTTotal = gst.TotalGST

	return stats, nil
}
