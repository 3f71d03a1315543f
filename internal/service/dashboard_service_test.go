package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
)

func newDashboardForTest(repo *fakeEvaluationRepo, lecturers *fakeLecturerRepo, cache *CacheService) *DashboardService {
	svc := NewDashboardService(repo, lecturers, cache, DashboardConfig{}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestDashboardService_OverviewComposesAggregates(t *testing.T) {
	hassan := &models.Lecturer{ID: "lec-1", Nama: "Ustaz Hassan"}
	karim := &models.Lecturer{ID: "lec-2", Nama: "Ustaz Karim"}
	evaluations := []models.Evaluation{
		makeEvaluation("lec-1", 4, 4, 4, 4, boolPtr(true), "2026-03-05"),
		makeEvaluation("lec-1", 2, 2, 2, 2, boolPtr(false), "2026-03-06"),
		makeEvaluation("lec-2", 1, 1, 1, 2, nil, "2026-02-20"),
	}
	evaluations[0].Lecturer = hassan
	evaluations[1].Lecturer = hassan
	evaluations[2].Lecturer = karim

	repo := &fakeEvaluationRepo{evaluations: evaluations}
	lecturers := &fakeLecturerRepo{lecturers: []models.Lecturer{*hassan, *karim}}
	svc := newDashboardForTest(repo, lecturers, newCacheForTest(newStubCacheRepo()))

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, overview.TotalEvaluations)
	assert.Equal(t, 2, overview.TotalLecturers)
	assert.Equal(t, 1, overview.RecommendationStats.Ya)
	assert.Equal(t, 2, overview.RecommendationStats.Tidak)
	require.Len(t, overview.Scores, 2)
	assert.Equal(t, "Ustaz Hassan", overview.Scores[0].LecturerName)
	assert.Len(t, overview.Trend, DefaultTrendMonths)

	// lec-2 averages 1.25, below the default threshold.
	require.Len(t, overview.Alerts, 1)
	assert.Equal(t, "Ustaz Karim", overview.Alerts[0].LecturerName)
}

func TestDashboardService_OverviewServesFromCache(t *testing.T) {
	cacheRepo := newStubCacheRepo()
	repo := &fakeEvaluationRepo{evaluations: []models.Evaluation{
		makeEvaluation("lec-1", 3, 3, 3, 3, boolPtr(true), "2026-03-05"),
	}}
	lecturers := &fakeLecturerRepo{lecturers: []models.Lecturer{{ID: "lec-1", Nama: "Ustaz Hassan"}}}
	svc := newDashboardForTest(repo, lecturers, newCacheForTest(cacheRepo))

	first, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.entries, CacheKeyDashboard)

	// Mutate the backing store without invalidating; the cached payload
	// must still be served.
	repo.evaluations = nil
	second, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalEvaluations, second.TotalEvaluations)
}

func TestDashboardService_OverviewSurvivesBrokenCache(t *testing.T) {
	repo := &fakeEvaluationRepo{}
	lecturers := &fakeLecturerRepo{}
	disabled := NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
	svc := newDashboardForTest(repo, lecturers, disabled)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, overview.TotalEvaluations)
}

func TestDashboardService_TrendScopedToLecturer(t *testing.T) {
	repo := &fakeEvaluationRepo{evaluations: []models.Evaluation{
		makeEvaluation("lec-1", 4, 4, 4, 4, nil, "2026-03-05"),
		makeEvaluation("lec-2", 1, 1, 1, 1, nil, "2026-03-06"),
	}}
	svc := newDashboardForTest(repo, &fakeLecturerRepo{}, newCacheForTest(newStubCacheRepo()))

	trend, err := svc.Trend(context.Background(), "lec-1", 3)
	require.NoError(t, err)
	require.Len(t, trend, 3)

	march := trend[len(trend)-1]
	assert.Equal(t, "Mac 2026", march.Label)
	require.NotNil(t, march.AverageScore)
	assert.InDelta(t, 4.0, *march.AverageScore, 1e-9)
	assert.Equal(t, 1, march.EvaluationCount)
}

func TestDashboardService_TrendCachesDefaultQueryOnly(t *testing.T) {
	cacheRepo := newStubCacheRepo()
	repo := &fakeEvaluationRepo{}
	svc := newDashboardForTest(repo, &fakeLecturerRepo{}, newCacheForTest(cacheRepo))

	_, err := svc.Trend(context.Background(), "lec-1", 3)
	require.NoError(t, err)
	assert.NotContains(t, cacheRepo.entries, CacheKeyTrend)

	_, err = svc.Trend(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.entries, CacheKeyTrend)
}

func TestDashboardService_CompareRequiresIDs(t *testing.T) {
	svc := newDashboardForTest(&fakeEvaluationRepo{}, &fakeLecturerRepo{}, newCacheForTest(newStubCacheRepo()))

	_, err := svc.Compare(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDashboardService_ComparePreservesRequestOrder(t *testing.T) {
	repo := &fakeEvaluationRepo{evaluations: []models.Evaluation{
		makeEvaluation("lec-1", 4, 4, 4, 4, boolPtr(true), "2026-03-05"),
	}}
	lecturers := &fakeLecturerRepo{lecturers: []models.Lecturer{
		{ID: "lec-1", Nama: "Ustaz Hassan"},
		{ID: "lec-2", Nama: "Ustaz Karim"},
	}}
	svc := newDashboardForTest(repo, lecturers, newCacheForTest(newStubCacheRepo()))

	comparisons, err := svc.Compare(context.Background(), []string{"lec-2", "lec-1"})
	require.NoError(t, err)
	require.Len(t, comparisons, 2)

	assert.Equal(t, "Ustaz Karim", comparisons[0].LecturerName)
	assert.Equal(t, 0, comparisons[0].TotalEvaluations)
	assert.Equal(t, "Ustaz Hassan", comparisons[1].LecturerName)
	assert.InDelta(t, 4.0, comparisons[1].AvgOverall, 1e-9)
}

func TestDashboardService_AlertsThresholdOverride(t *testing.T) {
	evaluation := makeEvaluation("lec-1", 3, 3, 3, 3, nil, "2026-03-05")
	evaluation.Lecturer = &models.Lecturer{ID: "lec-1", Nama: "Ustaz Hassan"}
	repo := &fakeEvaluationRepo{evaluations: []models.Evaluation{evaluation}}
	svc := newDashboardForTest(repo, &fakeLecturerRepo{}, newCacheForTest(newStubCacheRepo()))

	alerts, err := svc.Alerts(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	alerts, err = svc.Alerts(context.Background(), 3.5)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Ustaz Hassan", alerts[0].LecturerName)
}
