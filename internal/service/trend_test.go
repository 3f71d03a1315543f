package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

func TestCalculateMonthlyTrend_SixMonthsWithMalayLabels(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	points := CalculateMonthlyTrend(nil, 6, "", now)
	require.Len(t, points, 6)

	assert.Equal(t, "Okt 2025", points[0].Label)
	assert.Equal(t, "Nov 2025", points[1].Label)
	assert.Equal(t, "Dis 2025", points[2].Label)
	assert.Equal(t, "Jan 2026", points[3].Label)
	assert.Equal(t, "Feb 2026", points[4].Label)
	assert.Equal(t, "Mac 2026", points[5].Label)

	assert.Equal(t, 10, points[0].Month)
	assert.Equal(t, 2025, points[0].Year)
	assert.Equal(t, 3, points[5].Month)
	assert.Equal(t, 2026, points[5].Year)
}

func TestCalculateMonthlyTrend_EmptyMonthsAreNil(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	evaluations := []models.Evaluation{
		makeEvaluation("lec-1", 3, 3, 3, 3, nil, "2026-01-10"),
		makeEvaluation("lec-1", 4, 4, 4, 4, nil, "2026-01-20"),
	}

	points := CalculateMonthlyTrend(evaluations, 6, "", now)
	require.Len(t, points, 6)

	jan := points[3]
	require.NotNil(t, jan.AverageScore)
	assert.InDelta(t, 3.5, *jan.AverageScore, 1e-9)
	assert.Equal(t, 2, jan.EvaluationCount)

	for _, i := range []int{0, 1, 2, 4, 5} {
		assert.Nil(t, points[i].AverageScore, "month %s", points[i].Label)
		assert.Zero(t, points[i].EvaluationCount)
	}
}

func TestCalculateMonthlyTrend_CurrentMonthIncluded(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	evaluations := []models.Evaluation{
		makeEvaluation("lec-1", 4, 4, 4, 4, nil, "2026-03-01"),
	}

	points := CalculateMonthlyTrend(evaluations, 3, "", now)
	require.Len(t, points, 3)
	require.NotNil(t, points[2].AverageScore)
	assert.InDelta(t, 4.0, *points[2].AverageScore, 1e-9)
}

func TestCalculateMonthlyTrend_FiltersByLecturer(t *testing.T) {
	now := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	evaluations := []models.Evaluation{
		makeEvaluation("lec-1", 4, 4, 4, 4, nil, "2026-01-10"),
		makeEvaluation("lec-2", 1, 1, 1, 1, nil, "2026-01-11"),
	}

	points := CalculateMonthlyTrend(evaluations, 1, "lec-1", now)
	require.Len(t, points, 1)
	require.NotNil(t, points[0].AverageScore)
	assert.InDelta(t, 4.0, *points[0].AverageScore, 1e-9)
	assert.Equal(t, 1, points[0].EvaluationCount)
}

func TestValidateTrendData(t *testing.T) {
	good := 3.2
	bad := 5.0

	assert.True(t, ValidateTrendData([]models.TrendPoint{
		{EvaluationCount: 0, AverageScore: nil},
		{EvaluationCount: 2, AverageScore: &good},
	}))
	assert.False(t, ValidateTrendData([]models.TrendPoint{
		{EvaluationCount: 0, AverageScore: &good},
	}))
	assert.False(t, ValidateTrendData([]models.TrendPoint{
		{EvaluationCount: 1, AverageScore: nil},
	}))
	assert.False(t, ValidateTrendData([]models.TrendPoint{
		{EvaluationCount: 1, AverageScore: &bad},
	}))
}

func TestTrendDirection(t *testing.T) {
	pts := func(values ...float64) []models.TrendPoint {
		points := make([]models.TrendPoint, len(values))
		for i := range values {
			v := values[i]
			points[i] = models.TrendPoint{AverageScore: &v, EvaluationCount: 1}
		}
		return points
	}

	assert.Equal(t, TrendInsufficient, TrendDirection(nil))
	assert.Equal(t, TrendInsufficient, TrendDirection(pts(3.0)))
	assert.Equal(t, TrendImproving, TrendDirection(pts(2.0, 2.0, 3.0, 3.0)))
	assert.Equal(t, TrendDeclining, TrendDirection(pts(3.0, 3.0, 2.0, 2.0)))
	assert.Equal(t, TrendStable, TrendDirection(pts(3.0, 3.0, 3.05, 3.05)))
}

func TestTrendDirection_IgnoresEmptyMonths(t *testing.T) {
	low, high := 2.0, 3.0
	points := []models.TrendPoint{
		{AverageScore: &low, EvaluationCount: 1},
		{AverageScore: nil},
		{AverageScore: &high, EvaluationCount: 1},
	}
	assert.Equal(t, TrendImproving, TrendDirection(points))
}

func TestTrendLabels(t *testing.T) {
	points := []models.TrendPoint{{Label: "Jan 2026"}, {Label: "Feb 2026"}}
	assert.Equal(t, []string{"Jan 2026", "Feb 2026"}, TrendLabels(points))
}

func TestTrendValues(t *testing.T) {
	avg := 3.2
	points := []models.TrendPoint{
		{Label: "Jan 2026", AverageScore: &avg, EvaluationCount: 2},
		{Label: "Feb 2026"},
	}

	values := TrendValues(points)
	require.Len(t, values, 2)
	assert.Equal(t, &avg, values[0])
	assert.Nil(t, values[1])
}
