package query

import (
	"context"
	"fmt"

	"github.com/pgale/abn-tracker/internal/entity"
)

// EntityTypes lists the distinct detailed entity types on record.
func (s *Service) EntityTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := s.db.WithContext(ctx).
		Model(&entity.ABNEntity{}).
		Distinct("entity_type").
		Where("entity_type IS NOT NULL").
		Order("entity_type").
		Pluck("entity_type", &types).Error
	if err != nil {
		return nil, fmt.Errorf("entity types: %w", err)
	}
	return types, nil
}

// States lists the distinct states seen in location history.
func (s *Service) States(ctx context.Context) ([]string, error) {
	var states []string
	err := s.db.WithContext(ctx).
		Model(&entity.LocationHistory{}).
		Distinct("state").
		Where("state IS NOT NULL").
		Order("state").
		Pluck("state", &states).Error
	if err != nil {
		return nil, fmt.Errorf("states: %w", err)
	}
	return states, nil
}

// Postcodes lists distinct postcodes, optionally within one state.
func (s *Service) Postcodes(ctx context.Context, state string) ([]string, error) {
	q := s.db.WithContext(ctx).
		Model(&entity.LocationHistory{}).
		Distinct("postcode").
		Where("postcode IS NOT NULL")
	if state != "" {
		q = q.Where("state = ?", state)
	}
	var postcodes []string
	if err := q.Order("postcode").Pluck("postcode", &postcodes).Error; err != nil {
		return nil, fmt.Errorf("postcodes: %w", err)
	}
	return postcodes, nil
}
