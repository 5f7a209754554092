package dto

import (
	"fmt"
	"strconv"
	"time"

	"recommendations/internal/model"

	"github.com/go-playground/validator/v10"
)

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecommendationResponse struct {
	ID                 int64     `json:"id"`
	ProductID          int64     `json:"product_id"`
	RecommendedID      int64     `json:"recommended_id"`
	RecommendationType string    `json:"recommendation_type"`
	Status             string    `json:"status"`
	Like               int       `json:"like"`
	Dislike            int       `json:"dislike"`
	CreatedAt          time.Time `json:"created_at"`
	LastUpdated        time.Time `json:"last_updated"`
}

// IndexResponse describes the service at GET /.
type IndexResponse struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Paths   map[string]string `json:"paths"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// RecommendationQuery is the raw query string of GET /recommendations.
// Ids and timestamps stay strings so their errors can name the field.
type RecommendationQuery struct {
	ProductID          string `form:"product_id"`
	RecommendedID      string `form:"recommended_id"`
	RecommendationType string `form:"recommendation_type"`
	Status             string `form:"status"`
	CreatedAtMin       string `form:"created_at_min"`
	CreatedAtMax       string `form:"created_at_max"`
	SortBy             string `form:"sort_by"`
	Order              string `form:"order"`
	Page               *int   `form:"page"  validate:"omitempty,min=1"`
	Limit              *int   `form:"limit" validate:"omitempty,min=1"`
}

var validate = validator.New()

// dateOnly is accepted for created_at_min / created_at_max besides RFC 3339.
// As a maximum it means the end of that day, so the whole day is included.
const dateOnly = "2006-01-02"

// ToFilter validates the query and converts it to the typed filter.
// maxLimit caps limit when positive.
func (q RecommendationQuery) ToFilter(maxLimit int) (model.RecommendationFilter, error) {
	var f model.RecommendationFilter

	if err := validate.Struct(q); err != nil {
		if fields, ok := err.(validator.ValidationErrors); ok && len(fields) > 0 {
			name := map[string]string{"Page": "page", "Limit": "limit"}[fields[0].Field()]
			return f, &model.ValidationError{Field: name, Message: fmt.Sprintf("Invalid %s: must be a positive integer", name)}
		}
		return f, err
	}
	if maxLimit > 0 && q.Limit != nil && *q.Limit > maxLimit {
		return f, &model.ValidationError{Field: "limit", Message: fmt.Sprintf("Invalid limit: must not exceed %d", maxLimit)}
	}

	var err error
	if f.ProductID, err = optionalID(model.FieldProductID, q.ProductID); err != nil {
		return f, err
	}
	if f.RecommendedID, err = optionalID(model.FieldRecommendedID, q.RecommendedID); err != nil {
		return f, err
	}
	if f.CreatedAtMin, err = optionalTime("created_at_min", q.CreatedAtMin, false); err != nil {
		return f, err
	}
	if f.CreatedAtMax, err = optionalTime("created_at_max", q.CreatedAtMax, true); err != nil {
		return f, err
	}
	if q.RecommendationType != "" {
		f.RecommendationType = &q.RecommendationType
	}
	if q.Status != "" {
		f.Status = &q.Status
	}

	f.SortBy = q.SortBy
	f.Order = q.Order
	f.Page = q.Page
	f.Limit = q.Limit
	return f, nil
}

func optionalID(field, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &model.ValidationError{Field: field, Message: fmt.Sprintf("Invalid %s: must be an integer", field)}
	}
	return &n, nil
}

// optionalTime parses raw; with endOfDay a bare date becomes its last instant.
func optionalTime(field, raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(dateOnly, raw); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &t, nil
	}
	return nil, &model.ValidationError{Field: field, Message: fmt.Sprintf("Invalid %s: must be an RFC 3339 timestamp or YYYY-MM-DD date", field)}
}
