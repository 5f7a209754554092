package service

import (
	"context"
	"errors"
	"fmt"

	"recommendations/internal/dto"
	"recommendations/internal/model"
	"recommendations/internal/repository"

	"github.com/rs/zerolog/log"
)

// RecommendationCache is a best-effort store of serialized recommendations.
// Implementations never fail the caller; a problem is reported as a miss.
//
// Generation and Set close the read-then-fill race: a reader takes the
// generation before loading the row, and Set stores nothing if Invalidate
// ran for that id in between. A negative generation means unknown and
// makes Set a no-op.
type RecommendationCache interface {
	Get(ctx context.Context, id int64) (dto.RecommendationResponse, bool)
	Generation(ctx context.Context, id int64) int64
	Set(ctx context.Context, rec dto.RecommendationResponse, gen int64)
	Invalidate(ctx context.Context, id int64)
}

type nopCache struct{}

func (nopCache) Get(context.Context, int64) (dto.RecommendationResponse, bool) {
	return dto.RecommendationResponse{}, false
}
func (nopCache) Generation(context.Context, int64) int64                { return -1 }
func (nopCache) Set(context.Context, dto.RecommendationResponse, int64) {}
func (nopCache) Invalidate(context.Context, int64)                      {}

// RecommendationService defines business operations for recommendations.
// Payloads are decoded JSON values; they are validated here, not by the caller.
type RecommendationService interface {
	Create(ctx context.Context, payload any) (dto.RecommendationResponse, error)
	Get(ctx context.Context, id int64) (dto.RecommendationResponse, error)
	List(ctx context.Context, f model.RecommendationFilter) ([]dto.RecommendationResponse, error)
	// Update replaces every business field (all of them are required).
	Update(ctx context.Context, id int64, payload any) (dto.RecommendationResponse, error)
	// Patch applies only the fields present in payload.
	Patch(ctx context.Context, id int64, payload any) (dto.RecommendationResponse, error)
	Like(ctx context.Context, id int64) (dto.RecommendationResponse, error)
	Delete(ctx context.Context, id int64) error
}

type recommendationService struct {
	repo  repository.RecommendationRepository
	cache RecommendationCache
}

// NewRecommendationService wires the service. A nil cache disables caching.
func NewRecommendationService(repo repository.RecommendationRepository, cache RecommendationCache) RecommendationService {
	if cache == nil {
		cache = nopCache{}
	}
	return &recommendationService{repo: repo, cache: cache}
}

// mapRecommendation converts a model to a DTO response.
func mapRecommendation(r model.Recommendation) dto.RecommendationResponse {
	return dto.RecommendationResponse{
		ID:                 r.ID,
		ProductID:          r.ProductID,
		RecommendedID:      r.RecommendedID,
		RecommendationType: string(r.RecommendationType),
		Status:             string(r.Status),
		Like:               r.Like,
		Dislike:            r.Dislike,
		CreatedAt:          r.CreatedAt,
		LastUpdated:        r.LastUpdated,
	}
}

func (s *recommendationService) Create(ctx context.Context, payload any) (dto.RecommendationResponse, error) {
	rec := &model.Recommendation{}
	if err := rec.Deserialize(payload, model.ModeStrict); err != nil {
		return dto.RecommendationResponse{}, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		logStorage(err, rec)
		return dto.RecommendationResponse{}, err
	}
	log.Info().Int64("id", rec.ID).Int64("product_id", rec.ProductID).
		Int64("recommended_id", rec.RecommendedID).Msg("recommendation created")
	return mapRecommendation(*rec), nil
}

func (s *recommendationService) Get(ctx context.Context, id int64) (dto.RecommendationResponse, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}
	gen := s.cache.Generation(ctx, id)
	rec, err := s.find(ctx, id)
	if err != nil {
		return dto.RecommendationResponse{}, err
	}
	resp := mapRecommendation(*rec)
	s.cache.Set(ctx, resp, gen)
	return resp, nil
}

func (s *recommendationService) List(ctx context.Context, f model.RecommendationFilter) ([]dto.RecommendationResponse, error) {
	list, err := s.repo.FindByFilters(ctx, f)
	if err != nil {
		logStorage(err, nil)
		return nil, err
	}
	result := make([]dto.RecommendationResponse, 0, len(list))
	for _, r := range list {
		result = append(result, mapRecommendation(r))
	}
	return result, nil
}

func (s *recommendationService) Update(ctx context.Context, id int64, payload any) (dto.RecommendationResponse, error) {
	return s.modify(ctx, id, func(rec *model.Recommendation) error {
		return rec.Deserialize(payload, model.ModeStrict)
	})
}

func (s *recommendationService) Patch(ctx context.Context, id int64, payload any) (dto.RecommendationResponse, error) {
	return s.modify(ctx, id, func(rec *model.Recommendation) error {
		return rec.Deserialize(payload, model.ModePartial)
	})
}

func (s *recommendationService) Like(ctx context.Context, id int64) (dto.RecommendationResponse, error) {
	return s.modify(ctx, id, func(rec *model.Recommendation) error {
		return rec.SetLike(rec.Like + 1)
	})
}

func (s *recommendationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logStorage(err, &model.Recommendation{ID: id})
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

// modify loads the stored row, lets apply change it, and writes it back
// through the optimistic guard. The cached copy is dropped on success.
func (s *recommendationService) modify(ctx context.Context, id int64, apply func(*model.Recommendation) error) (dto.RecommendationResponse, error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return dto.RecommendationResponse{}, err
	}
	if err := apply(rec); err != nil {
		return dto.RecommendationResponse{}, err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			log.Info().Int64("id", id).Msg("stale update rejected")
		}
		logStorage(err, rec)
		return dto.RecommendationResponse{}, fmt.Errorf("update recommendation %d: %w", id, err)
	}
	s.cache.Invalidate(ctx, id)
	return mapRecommendation(*rec), nil
}

func (s *recommendationService) find(ctx context.Context, id int64) (*model.Recommendation, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		logStorage(err, &model.Recommendation{ID: id})
		return nil, fmt.Errorf("find recommendation %d: %w", id, err)
	}
	return rec, nil
}

// logStorage records database failures with the ids involved.
// Domain outcomes such as not-found or conflict are not logged here.
func logStorage(err error, rec *model.Recommendation) {
	var serr *repository.StorageError
	if !errors.As(err, &serr) {
		return
	}
	ev := log.Error().Err(serr.Err).Str("op", serr.Op)
	if rec != nil {
		ev = ev.Int64("id", rec.ID).Int64("product_id", rec.ProductID).Int64("recommended_id", rec.RecommendedID)
	}
	ev.Msg("storage failure")
}
