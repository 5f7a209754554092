package model

import (
	"math"
	"time"
)

// Sort columns accepted by RecommendationFilter.SortBy.
const (
	SortCreatedAt     = "created_at"
	SortProductID     = "product_id"
	SortRecommendedID = "recommended_id"
	SortLastUpdated   = "last_updated"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"

	DefaultPage  = 1
	DefaultLimit = 10
)

// RecommendationFilter selects, orders and pages recommendations.
// Nil fields are not applied. An empty filter returns every row, newest first.
type RecommendationFilter struct {
	ProductID          *int64
	RecommendedID      *int64
	RecommendationType *string
	Status             *string
	CreatedAtMin       *time.Time
	CreatedAtMax       *time.Time

	// SortBy defaults to created_at; an unrecognized column disables ordering.
	SortBy string
	// Order is asc or desc; anything else means desc.
	Order string

	// Pagination applies only when Page or Limit is set.
	Page  *int
	Limit *int
}

// SortColumn returns the column to order by and whether it is recognized.
func (f RecommendationFilter) SortColumn() (string, bool) {
	switch f.SortBy {
	case "":
		return SortCreatedAt, true
	case SortCreatedAt, SortProductID, SortRecommendedID, SortLastUpdated:
		return f.SortBy, true
	default:
		return "", false
	}
}

func (f RecommendationFilter) Descending() bool {
	return f.Order != OrderAsc
}

// Paginated reports whether a page window applies, and returns offset and limit.
// A page whose offset would not fit in an int gets math.MaxInt, which is past
// every row.
func (f RecommendationFilter) Paginated() (offset, limit int, ok bool) {
	if f.Page == nil && f.Limit == nil {
		return 0, 0, false
	}
	page, limit := DefaultPage, DefaultLimit
	if f.Page != nil {
		page = *f.Page
	}
	if f.Limit != nil {
		limit = *f.Limit
	}
	if limit > 0 && page-1 > math.MaxInt/limit {
		return math.MaxInt, limit, true
	}
	return (page - 1) * limit, limit, true
}
