package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pgale/abn-tracker/constants"
)

// SearchParams filters an entity search. Zero values mean "no filter".
type SearchParams struct {
	Query         string
	EntityType    string
	State         string
	Postcode      string
	GSTRegistered *bool
	Limit         int
	Offset        int
}

// EntitySummary is one search hit with its current location, if known.
type EntitySummary struct {
	ABN             string     `json:"abn"`
	EntityName      string     `json:"entity_name"`
	EntityType      *string    `json:"entity_type"`
	FirstActiveDate *time.Time `json:"first_active_date"`
	State           *string    `json:"state"`
	Postcode        *string    `json:"postcode"`
}

// SearchResult carries one page of hits plus the unpaged total.
type SearchResult struct {
	Total   int64           `json:"total"`
	Results []EntitySummary `json:"results"`
}

// SearchEntities matches the query against entity names, ABNs, trading
// names and business names, with optional type, current-location and
// GST-registration filters.
func (s *Service) SearchEntities(ctx context.Context, p SearchParams) (*SearchResult, error) {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Table("abn_entity AS e")
		if p.Query != "" {
			term := "%" + strings.ToLower(p.Query) + "%"
			q = q.Where(`(LOWER(e.entity_name) LIKE ?
				OR e.abn LIKE ?
				OR EXISTS (SELECT 1 FROM abn_trading_name t WHERE t.abn = e.abn AND LOWER(t.trading_name) LIKE ?)
				OR EXISTS (SELECT 1 FROM abn_business_name b WHERE b.abn = e.abn AND LOWER(b.business_name) LIKE ?))`,
				term, "%"+p.Query+"%", term, term)
		}
		if p.EntityType != "" {
			q = q.Where("e.entity_type = ?", p.EntityType)
		}
		if p.State != "" {
			q = q.Where("EXISTS (SELECT 1 FROM abn_location_history l WHERE l.abn = e.abn AND l.is_current = ? AND l.state = ?)", true, p.State)
		}
		if p.Postcode != "" {
			q = q.Where("EXISTS (SELECT 1 FROM abn_location_history l WHERE l.abn = e.abn AND l.is_current = ? AND l.postcode = ?)", true, p.Postcode)
		}
		if p.GSTRegistered != nil {
			const registered = "EXISTS (SELECT 1 FROM abn_gst_history g WHERE g.abn = e.abn AND g.is_current = ? AND g.status <> ?)"
			if *p.GSTRegistered {
				q = q.Where(registered, true, constants.GSTNotRegistered)
			} else {
				q = q.Where("NOT "+registered, true, constants.GSTNotRegistered)
			}
		}
		return q
	}

	out := &SearchResult{}
	if err := base().Count(&out.Total).Error; err != nil {
		return nil, fmt.Errorf("count search hits: %w", err)
	}

	err := base().
		Select("e.abn, e.entity_name, e.entity_type, e.first_active_date, l.state, l.postcode").
		Joins("LEFT JOIN abn_location_history l ON e.abn = l.abn AND l.is_current = ?", true).
		Order("e.entity_name").
		Limit(p.Limit).
		Offset(p.Offset).
		Scan(&out.Results).Error
	if err != nil {
		return nil, fmt.Errorf("search entities: %w", err)
	}
	return out, nil
}
