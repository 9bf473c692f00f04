package query

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pgale/abn-tracker/constants"
)

// YearCount is one year's registrations.
type YearCount struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

// NameReuse is a trading name shared by more than one ABN.
type NameReuse struct {
	TradingName string `json:"trading_name"`
	ABNCount    int64  `json:"abn_count"`
}

// LocationChurn is an entity ranked by how often it moved.
type LocationChurn struct {
	ABN             string `json:"abn"`
	EntityName      string `json:"entity_name"`
	LocationChanges int64  `json:"location_changes"`
}

// PostcodeCount is one slice of the postcode breakdown.
type PostcodeCount struct {
	Postcode string `json:"postcode"`
	Count    int64  `json:"count"`
}

// AnalyticsData is the unfiltered analytics block.
type AnalyticsData struct {
	ByYear           []YearCount     `json:"by_year"`
	TradingNameReuse []NameReuse     `json:"trading_name_reuse"`
	LocationChanges  []LocationChurn `json:"location_changes"`
}

// Filter narrows analytics and map queries to the entities whose current
// location and type match. Zero values mean "no filter".
type Filter struct {
	State      string
	Postcode   string
	EntityType string
}

// FilteredAnalytics is the analytics block scoped by a Filter.
type FilteredAnalytics struct {
	FilteredCount        int64           `json:"filtered_count"`
	EntityTypesHighLevel []CategoryCount `json:"entity_types_high_level"`
	EntityTypesDetailed  []CategoryCount `json:"entity_types_detailed"`
	StateDistribution    []StateCount    `json:"state_distribution"`
	PostcodeDistribution []PostcodeCount `json:"postcode_distribution"`
	ByYear               []YearCount     `json:"by_year"`
}

// MapEntity is one map pin: an entity and its current location.
type MapEntity struct {
	ABN        string  `json:"abn"`
	EntityName string  `json:"entity_name"`
	EntityType *string `json:"entity_type"`
	State      string  `json:"state"`
	Postcode   string  `json:"postcode"`
}

// yearExpr extracts the calendar year of a date column in whichever
// dialect the connection speaks.
func (s *Service) yearExpr(col string) string {
	if s.db.Dialector.Name() == "sqlite" {
		return fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", col)
	}
	return fmt.Sprintf("EXTRACT(YEAR FROM %s)::int", col)
}

// RegistrationsByYear counts entities by the calendar year their ABN
// first became active.
func (s *Service) RegistrationsByYear(ctx context.Context) ([]YearCount, error) {
	var rows []YearCount
	yearCol := s.yearExpr("first_active_date")
	err := s.db.WithContext(ctx).Table("abn_entity").
		Select(yearCol+" AS year, COUNT(*) AS count").
		Where("first_active_date IS NOT NULL").
		Group(yearCol).
		Order("year").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("registrations by year: %w", err)
	}
	return rows, nil
}

// Analytics computes the unfiltered analytics block: registrations per
// year, reused trading names, and the entities that moved the most.
func (s *Service) Analytics(ctx context.Context) (*AnalyticsData, error) {
	db := s.db.WithContext(ctx)
	out := &AnalyticsData{}

	byYear, err := s.RegistrationsByYear(ctx)
	if err != nil {
		return nil, err
	}
	out.ByYear = byYear

	err = db.Table("abn_trading_name").
		Select("trading_name, COUNT(DISTINCT abn) AS abn_count").
		Group("trading_name").
		Having("COUNT(DISTINCT abn) > 1").
		Order("abn_count DESC").
		Limit(10).
		Scan(&out.TradingNameReuse).Error
	if err != nil {
		return nil, fmt.Errorf("trading name reuse: %w", err)
	}

	err = db.Table("abn_entity AS e").
		Select("e.abn, e.entity_name, COUNT(*) AS location_changes").
		Joins("JOIN abn_location_history l ON e.abn = l.abn").
		Group("e.abn, e.entity_name").
		Having("COUNT(*) > 1").
		Order("location_changes DESC").
		Limit(10).
		Scan(&out.LocationChanges).Error
	if err != nil {
		return nil, fmt.Errorf("location changes: %w", err)
	}

	return out, nil
}

// filteredBase joins entities to their current location and applies the
// filter. The entity-type filter accepts either a high-level category name
// or a detailed type string.
func (s *Service) filteredBase(ctx context.Context, f Filter) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("abn_entity AS e").
		Joins("JOIN abn_location_history l ON e.abn = l.abn").
		Where("l.is_current = ?", true)
	if f.State != "" {
		q = q.Where("l.state = ?", f.State)
	}
	if f.Postcode != "" {
		q = q.Where("l.postcode = ?", f.Postcode)
	}
	if f.EntityType != "" {
		if isHighLevelCategory(f.EntityType) {
			q = q.Where(categoryCase("e.entity_type")+" = ?", f.EntityType)
		} else {
			q = q.Where("e.entity_type = ?", f.EntityType)
		}
	}
	return q
}

// AnalyticsFiltered computes the analytics block scoped by a Filter.
func (s *Service) AnalyticsFiltered(ctx context.Context, f Filter) (*FilteredAnalytics, error) {
	out := &FilteredAnalytics{}

	err := s.filteredBase(ctx, f).
		Select("COUNT(DISTINCT e.abn) AS count").
		Scan(&out.FilteredCount).Error
	if err != nil {
		return nil, fmt.Errorf("filtered count: %w", err)
	}

	caseExpr := categoryCase("e.entity_type")
	err = s.filteredBase(ctx, f).
		Select(caseExpr + " AS entity_type, COUNT(DISTINCT e.abn) AS count").
		Group(caseExpr).
		Order("count DESC").
		Scan(&out.EntityTypesHighLevel).Error
	if err != nil {
		return nil, fmt.Errorf("entity types high level: %w", err)
	}

	err = s.filteredBase(ctx, f).
		Select("e.entity_type, COUNT(DISTINCT e.abn) AS count").
		Group("e.entity_type").
		Order("count DESC").
		Scan(&out.EntityTypesDetailed).Error
	if err != nil {
		return nil, fmt.Errorf("entity types detailed: %w", err)
	}

	err = s.filteredBase(ctx, f).
		Select("l.state, COUNT(DISTINCT e.abn) AS count").
		Group("l.state").
		Order("count DESC").
		Scan(&out.StateDistribution).Error
	if err != nil {
		return nil, fmt.Errorf("state distribution: %w", err)
	}

	err = s.filteredBase(ctx, f).
		Where("l.postcode IS NOT NULL").
		Select("l.postcode, COUNT(DISTINCT e.abn) AS count").
		Group("l.postcode").
		Order("count DESC").
		Limit(20).
		Scan(&out.PostcodeDistribution).Error
	if err != nil {
		return nil, fmt.Errorf("postcode distribution: %w", err)
	}

	yearCol := s.yearExpr("e.first_active_date")
	err = s.filteredBase(ctx, f).
		Where("e.first_active_date IS NOT NULL").
		Select(yearCol + " AS year, COUNT(DISTINCT e.abn) AS count").
		Group(yearCol).
		Order("year").
		Scan(&out.ByYear).Error
	if err != nil {
		return nil, fmt.Errorf("registrations by year: %w", err)
	}

	return out, nil
}

// MapData lists every entity matching the filter with its current
// location, ordered for stable map rendering.
func (s *Service) MapData(ctx context.Context, f Filter) ([]MapEntity, error) {
	var rows []MapEntity
	err := s.filteredBase(ctx, f).
		Select("e.abn, e.entity_name, e.entity_type, l.state, l.postcode").
		Order("l.state, l.postcode, e.entity_name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("map data: %w", err)
	}
	return rows, nil
}

func isHighLevelCategory(v string) bool {
	for _, name := range constants.CategoryNames() {
		if v == name {
			return true
		}
	}
	return false
}
