package repository

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"recommendations/internal/dto"
	"recommendations/internal/infra"
	"recommendations/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

// steppingClock advances by one minute on every call so created_at is strictly ordered.
type steppingClock struct{ t time.Time }

func (c *steppingClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestRepo(t *testing.T) (*recommendationRepo, *steppingClock) {
	t.Helper()
	db, err := infra.NewDatabase("sqlite://:memory:", infra.PoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	clock := &steppingClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewRecommendationRepository(db).(*recommendationRepo)
	repo.now = clock.now
	return repo, clock
}

func seed(t *testing.T, repo *recommendationRepo, pid, rid int64, typ model.RecommendationType, st model.Status) *model.Recommendation {
	t.Helper()
	r, err := model.NewRecommendation(pid, rid, typ, st)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func ids(list []model.Recommendation) []int64 {
	out := make([]int64, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// ── CRUD ──────────────────────────────────────────────────────────────────────

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	repo, _ := newTestRepo(t)
	r, err := model.NewRecommendation(1, 100, model.TypeCrossSell, model.StatusActive)
	require.NoError(t, err)
	r.ID = 999

	require.NoError(t, repo.Create(context.Background(), r))
	assert.NotEqual(t, int64(999), r.ID)
	assert.NotZero(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())
	assert.True(t, r.CreatedAt.Equal(r.LastUpdated))

	got, err := repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ProductID, got.ProductID)
	assert.Equal(t, r.RecommendedID, got.RecommendedID)
	assert.Equal(t, r.RecommendationType, got.RecommendationType)
	assert.Equal(t, r.Status, got.Status)
	assert.True(t, r.LastUpdated.Equal(got.LastUpdated))
}

func TestFindByID_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	r := seed(t, repo, 1, 2, model.TypeUpSell, model.StatusDraft)

	require.NoError(t, repo.Delete(context.Background(), r.ID))
	require.NoError(t, repo.Delete(context.Background(), r.ID))
	require.NoError(t, repo.Delete(context.Background(), 123456))

	_, err := repo.FindByID(context.Background(), r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── Query filter builder ──────────────────────────────────────────────────────

func TestFindByFilters_NoKeysReturnsAllNewestFirst(t *testing.T) {
	repo, _ := newTestRepo(t)
	var want []int64
	for i := int64(1); i <= 15; i++ {
		r := seed(t, repo, i, i+100, model.TypeCrossSell, model.StatusActive)
		want = append([]int64{r.ID}, want...)
	}

	list, err := repo.FindByFilters(context.Background(), model.RecommendationFilter{})
	require.NoError(t, err)
	assert.Equal(t, want, ids(list))
}

func TestFindByFilters_EqualityIsCommutative(t *testing.T) {
	repo, _ := newTestRepo(t)
	a := seed(t, repo, 1, 10, model.TypeCrossSell, model.StatusActive)
	seed(t, repo, 1, 11, model.TypeUpSell, model.StatusExpired)
	seed(t, repo, 2, 12, model.TypeCrossSell, model.StatusActive)
	d := seed(t, repo, 1, 13, model.TypeAccessory, model.StatusActive)
	ctx := context.Background()

	byProduct, err := repo.FindByFilters(ctx, model.RecommendationFilter{ProductID: ptr(int64(1))})
	require.NoError(t, err)
	byStatus, err := repo.FindByFilters(ctx, model.RecommendationFilter{Status: ptr("active")})
	require.NoError(t, err)
	both, err := repo.FindByFilters(ctx, model.RecommendationFilter{ProductID: ptr(int64(1)), Status: ptr("active")})
	require.NoError(t, err)

	intersect := func(x, y []model.Recommendation) []int64 {
		in := map[int64]bool{}
		for _, r := range y {
			in[r.ID] = true
		}
		var out []int64
		for _, r := range x {
			if in[r.ID] {
				out = append(out, r.ID)
			}
		}
		return out
	}

	assert.ElementsMatch(t, []int64{a.ID, d.ID}, ids(both))
	assert.ElementsMatch(t, ids(both), intersect(byProduct, byStatus))
	assert.ElementsMatch(t, ids(both), intersect(byStatus, byProduct))
}

func TestFindByFilters_AllEqualityKeys(t *testing.T) {
	repo, _ := newTestRepo(t)
	want := seed(t, repo, 5, 50, model.TypeAccessory, model.StatusDraft)
	seed(t, repo, 5, 50, model.TypeAccessory, model.StatusActive)
	seed(t, repo, 5, 51, model.TypeAccessory, model.StatusDraft)

	list, err := repo.FindByFilters(context.Background(), model.RecommendationFilter{
		ProductID:          ptr(int64(5)),
		RecommendedID:      ptr(int64(50)),
		RecommendationType: ptr("accessory"),
		Status:             ptr("draft"),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{want.ID}, ids(list))
}

func TestFindByFilters_UnmatchedIsEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)
	seed(t, repo, 1, 2, model.TypeCrossSell, model.StatusActive)
	ctx := context.Background()

	list, err := repo.FindByFilters(ctx, model.RecommendationFilter{ProductID: ptr(int64(77))})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	list, err = repo.FindByFilters(ctx, model.RecommendationFilter{Status: ptr("archived")})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFindByFilters_CreatedAtRange(t *testing.T) {
	repo, _ := newTestRepo(t)
	var all []*model.Recommendation
	for i := int64(1); i <= 5; i++ {
		all = append(all, seed(t, repo, i, i+1, model.TypeUpSell, model.StatusActive))
	}

	list, err := repo.FindByFilters(context.Background(), model.RecommendationFilter{
		CreatedAtMin: ptr(all[1].CreatedAt),
		CreatedAtMax: ptr(all[3].CreatedAt),
		Order:        model.OrderAsc,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{all[1].ID, all[2].ID, all[3].ID}, ids(list))
}

func TestFindByFilters_DateOnlyMaxIncludesThatDay(t *testing.T) {
	repo, _ := newTestRepo(t)
	a := seed(t, repo, 1, 2, model.TypeUpSell, model.StatusActive)
	b := seed(t, repo, 2, 3, model.TypeUpSell, model.StatusActive)

	f, err := dto.RecommendationQuery{CreatedAtMax: "2024-03-01", Order: "asc"}.ToFilter(0)
	require.NoError(t, err)
	list, err := repo.FindByFilters(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, ids(list))

	f, err = dto.RecommendationQuery{CreatedAtMax: "2024-02-29"}.ToFilter(0)
	require.NoError(t, err)
	list, err = repo.FindByFilters(context.Background(), f)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFindByFilters_SortByColumn(t *testing.T) {
	repo, _ := newTestRepo(t)
	r3 := seed(t, repo, 3, 1, model.TypeUpSell, model.StatusActive)
	r1 := seed(t, repo, 1, 3, model.TypeUpSell, model.StatusActive)
	r2 := seed(t, repo, 2, 2, model.TypeUpSell, model.StatusActive)
	ctx := context.Background()

	list, err := repo.FindByFilters(ctx, model.RecommendationFilter{SortBy: model.SortProductID, Order: model.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, []int64{r1.ID, r2.ID, r3.ID}, ids(list))

	list, err = repo.FindByFilters(ctx, model.RecommendationFilter{SortBy: model.SortRecommendedID})
	require.NoError(t, err)
	assert.Equal(t, []int64{r1.ID, r2.ID, r3.ID}, ids(list))

	// unknown column: no error, every row still returned
	list, err = repo.FindByFilters(ctx, model.RecommendationFilter{SortBy: "popularity"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{r1.ID, r2.ID, r3.ID}, ids(list))
}

func TestFindByFilters_PaginationIsExhaustive(t *testing.T) {
	repo, _ := newTestRepo(t)
	const n = 23
	for i := int64(1); i <= n; i++ {
		seed(t, repo, i, i+1, model.TypeCrossSell, model.StatusActive)
	}
	ctx := context.Background()

	full, err := repo.FindByFilters(ctx, model.RecommendationFilter{})
	require.NoError(t, err)
	require.Len(t, full, n)

	var paged []int64
	seen := map[int64]bool{}
	for page := 1; page <= (n+9)/10; page++ {
		list, err := repo.FindByFilters(ctx, model.RecommendationFilter{Page: ptr(page), Limit: ptr(10)})
		require.NoError(t, err)
		for _, r := range list {
			assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
			seen[r.ID] = true
		}
		paged = append(paged, ids(list)...)
	}
	assert.Equal(t, ids(full), paged)

	list, err := repo.FindByFilters(ctx, model.RecommendationFilter{Page: ptr(4)})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFindByFilters_HugePageIsEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)
	for i := int64(1); i <= 3; i++ {
		seed(t, repo, i, i+1, model.TypeCrossSell, model.StatusActive)
	}

	list, err := repo.FindByFilters(context.Background(), model.RecommendationFilter{
		Page:  ptr(math.MaxInt/10 + 2),
		Limit: ptr(10),
	})
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ── Optimistic update guard ───────────────────────────────────────────────────

func TestUpdate_AdvancesToken(t *testing.T) {
	repo, _ := newTestRepo(t)
	r := seed(t, repo, 1, 2, model.TypeCrossSell, model.StatusActive)
	created := r.CreatedAt
	before := r.LastUpdated

	require.NoError(t, r.SetStatus(model.StatusExpired))
	require.NoError(t, repo.Update(context.Background(), r))
	assert.True(t, r.LastUpdated.After(before))
	assert.True(t, created.Equal(r.CreatedAt))

	got, err := repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, got.Status)
	assert.True(t, got.LastUpdated.Equal(r.LastUpdated))
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestUpdate_StaleTokenConflicts(t *testing.T) {
	repo, _ := newTestRepo(t)
	r := seed(t, repo, 1, 2, model.TypeCrossSell, model.StatusActive)
	ctx := context.Background()

	first, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)

	second.Like = 5
	require.NoError(t, repo.Update(ctx, second))

	first.Status = model.StatusDraft
	err = repo.Update(ctx, first)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.Equal(t, 5, got.Like)

	// holding the latest token succeeds and advances it again
	latest := got.LastUpdated
	got.Status = model.StatusDraft
	require.NoError(t, repo.Update(ctx, got))
	assert.True(t, got.LastUpdated.After(latest))
}

func TestUpdate_SameMicrosecondStillAdvances(t *testing.T) {
	repo, _ := newTestRepo(t)
	r := seed(t, repo, 1, 2, model.TypeCrossSell, model.StatusActive)
	frozen := r.LastUpdated
	repo.now = func() time.Time { return frozen }

	prev := r.LastUpdated
	require.NoError(t, repo.Update(context.Background(), r))
	assert.True(t, prev.Add(model.TokenPrecision).Equal(r.LastUpdated))
}

func TestUpdate_VanishedRowIsNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	r := seed(t, repo, 1, 2, model.TypeCrossSell, model.StatusActive)
	ctx := context.Background()

	held, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, r.ID))

	err = repo.Update(ctx, held)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_CheckConstraintIsStorageError(t *testing.T) {
	repo, _ := newTestRepo(t)
	r := seed(t, repo, 1, 2, model.TypeCrossSell, model.StatusActive)

	// bypass the setters to reach the database constraint
	r.Like = -1
	err := repo.Update(context.Background(), r)
	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "update", se.Op)
	assert.Equal(t, r.ID, se.ID)

	got, err := repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Like)
}
