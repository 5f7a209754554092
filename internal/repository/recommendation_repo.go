package repository

import (
	"context"
	"errors"
	"time"

	"recommendations/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecommendationRepository defines the data access contract for recommendations.
// Services depend on this interface, not on the concrete GORM implementation,
// so they can be tested against in-memory stubs.
type RecommendationRepository interface {
	Create(ctx context.Context, r *model.Recommendation) error
	FindByID(ctx context.Context, id int64) (*model.Recommendation, error)
	FindByFilters(ctx context.Context, f model.RecommendationFilter) ([]model.Recommendation, error)
	// Update persists r only if the stored last_updated still equals r.LastUpdated,
	// then advances r.LastUpdated. Returns ErrConflict or ErrNotFound otherwise.
	Update(ctx context.Context, r *model.Recommendation) error
	// Delete removes the row if present. A missing id is not an error.
	Delete(ctx context.Context, id int64) error
}

type recommendationRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepo{db: db, now: time.Now}
}

// nextToken returns a timestamp strictly after prev at token precision,
// so two updates inside the same microsecond still yield distinct tokens.
func (r *recommendationRepo) nextToken(prev time.Time) time.Time {
	t := r.now().UTC().Truncate(model.TokenPrecision)
	if !t.After(prev) {
		t = prev.UTC().Truncate(model.TokenPrecision).Add(model.TokenPrecision)
	}
	return t
}

func (r *recommendationRepo) Create(ctx context.Context, rec *model.Recommendation) error {
	now := r.now().UTC().Truncate(model.TokenPrecision)
	rec.ID = 0
	rec.CreatedAt = now
	rec.LastUpdated = now
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return &StorageError{Op: "create", Err: err}
	}
	return nil
}

func (r *recommendationRepo) FindByID(ctx context.Context, id int64) (*model.Recommendation, error) {
	var rec model.Recommendation
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "find", ID: id, Err: err}
	}
	return &rec, nil
}

// FindByFilters composes equality filters, the created_at range, ordering and
// the page window, in that order.
func (r *recommendationRepo) FindByFilters(ctx context.Context, f model.RecommendationFilter) ([]model.Recommendation, error) {
	q := r.db.WithContext(ctx).Model(&model.Recommendation{})

	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}
	if f.RecommendedID != nil {
		q = q.Where("recommended_id = ?", *f.RecommendedID)
	}
	if f.RecommendationType != nil {
		q = q.Where("recommendation_type = ?", *f.RecommendationType)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	if f.CreatedAtMin != nil {
		q = q.Where("created_at >= ?", f.CreatedAtMin.UTC())
	}
	if f.CreatedAtMax != nil {
		q = q.Where("created_at <= ?", f.CreatedAtMax.UTC())
	}

	if col, ok := f.SortColumn(); ok {
		desc := f.Descending()
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	}

	if offset, limit, ok := f.Paginated(); ok {
		q = q.Offset(offset).Limit(limit)
	}

	list := make([]model.Recommendation, 0)
	if err := q.Find(&list).Error; err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return list, nil
}

// Update re-reads the row under a row lock and compares tokens before writing.
// SQLite ignores the locking clause; the transaction still serializes writers there.
func (r *recommendationRepo) Update(ctx context.Context, rec *model.Recommendation) error {
	var token time.Time
	var createdAt time.Time

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Recommendation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, "id = ?", rec.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !rec.SameVersion(&current) {
			return ErrConflict
		}

		token = r.nextToken(current.LastUpdated)
		createdAt = current.CreatedAt
		return tx.Model(&model.Recommendation{}).Where("id = ?", rec.ID).Updates(map[string]any{
			"product_id":          rec.ProductID,
			"recommended_id":      rec.RecommendedID,
			"recommendation_type": rec.RecommendationType,
			"status":              rec.Status,
			"like_count":          rec.Like,
			"dislike_count":       rec.Dislike,
			"last_updated":        token,
		}).Error
	})

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	case err != nil:
		return &StorageError{Op: "update", ID: rec.ID, Err: err}
	}

	rec.LastUpdated = token
	rec.CreatedAt = createdAt
	return nil
}

func (r *recommendationRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Recommendation{}, "id = ?", id).Error; err != nil {
		return &StorageError{Op: "delete", ID: id, Err: err}
	}
	return nil
}
