package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pgale/abn-tracker/constants"
	"github.com/pgale/abn-tracker/internal/parse"
	"github.com/pgale/abn-tracker/internal/query"
)

// Service renders entity profiles as XLSX workbooks.
type Service struct {
	queries *query.Service
	logger  *slog.Logger
}

func NewService(queries *query.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{queries: queries, logger: logger}
}

// ExportEntityXLSX returns a workbook (as bytes) with one sheet per fact
// stream for the given ABN. Open interval ends print the "(current)"
// sentinel, same as the source documents. Returns nil bytes when the ABN
// is unknown.
func (s *Service) ExportEntityXLSX(ctx context.Context, abn string) ([]byte, error) {
	start := time.Now()

	detail, err := s.queries.EntityDetail(ctx, abn)
	if err != nil {
		return nil, fmt.Errorf("load entity: %w", err)
	}
	if detail == nil {
		return nil, nil
	}

	f := excelize.NewFile()
	write := func(sheet string, row int, values ...any) {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	addSheet := func(name string, headers ...any) string {
		_, _ = f.NewSheet(name)
		write(name, 1, headers...)
		return name
	}

	const entitySheet = "Entity"
	_ = f.SetSheetName(f.GetSheetName(0), entitySheet)

	entityType := strVal(detail.Entity.EntityType)
	write(entitySheet, 1, "ABN", detail.Entity.ABN)
	write(entitySheet, 2, "Entity name", detail.Entity.EntityName)
	write(entitySheet, 3, "Entity type", entityType)
	write(entitySheet, 4, "Category", string(constants.Categorize(entityType)))
	write(entitySheet, 5, "First active", fmtDate(detail.Entity.FirstActiveDate))
	write(entitySheet, 6, "ABN last updated", fmtDate(detail.Entity.ABNLastUpdated))
	write(entitySheet, 7, "Record extracted", fmtDate(detail.Entity.RecordExtractedDate))
	_ = f.SetColWidth(entitySheet, "A", "A", 18)
	_ = f.SetColWidth(entitySheet, "B", "B", 40)

	sheet := addSheet("ABN status", "Status", "From", "To")
	for i, p := range detail.StatusHistory {
		write(sheet, i+2, p.Status, fmtDate(p.FromDate), endToken(p.ToDate, p.IsCurrent))
	}

	sheet = addSheet("Entity names", "Entity name", "From", "To")
	for i, p := range detail.NameHistory {
		write(sheet, i+2, p.EntityName, fmtDate(p.FromDate), endToken(p.ToDate, p.IsCurrent))
	}

	sheet = addSheet("Locations", "State", "Postcode", "From", "To")
	for i, p := range detail.LocationHistory {
		write(sheet, i+2, p.State, p.Postcode, fmtDate(p.FromDate), endToken(p.ToDate, p.IsCurrent))
	}

	sheet = addSheet("GST", "Status", "From", "To")
	for i, p := range detail.GSTHistory {
		write(sheet, i+2, p.Status, fmtDate(p.FromDate), endToken(p.ToDate, p.IsCurrent))
	}

	sheet = addSheet("Business names", "Name", "From")
	for i, n := range detail.BusinessNames {
		write(sheet, i+2, n.Name, fmtDate(n.FromDate))
	}

	sheet = addSheet("Trading names", "Name", "From")
	for i, n := range detail.TradingNames {
		write(sheet, i+2, n.Name, fmtDate(n.FromDate))
	}

	sheet = addSheet("ASIC", "Type", "Number")
	for i, a := range detail.ASICRegistrations {
		write(sheet, i+2, a.ASICType, a.ASICNumber)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"abn", abn,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(constants.DateLayout)
}

// endToken prints an interval end the way the registry does: open
// intervals show the sentinel, closed ones the date.
func endToken(to *time.Time, isCurrent bool) string {
	return parse.Interval{To: to, IsCurrent: isCurrent}.EndToken()
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
