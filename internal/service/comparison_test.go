package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

func TestCalculateLecturerComparison_PreservesRequestOrder(t *testing.T) {
	evaluations := []models.Evaluation{
		makeEvaluation("lec-1", 4, 4, 4, 4, boolPtr(true), "2026-01-05"),
		makeEvaluation("lec-2", 2, 2, 2, 2, boolPtr(false), "2026-01-05"),
	}
	lecturers := []models.Lecturer{
		{ID: "lec-1", Nama: "Ustaz Hassan"},
		{ID: "lec-2", Nama: "Ustaz Karim"},
	}

	result := CalculateLecturerComparison(evaluations, lecturers, []string{"lec-2", "lec-1"})
	require.Len(t, result, 2)
	assert.Equal(t, "Ustaz Karim", result[0].LecturerName)
	assert.Equal(t, "Ustaz Hassan", result[1].LecturerName)
}

func TestCalculateLecturerComparison_PercentagesSumToHundred(t *testing.T) {
	evaluations := []models.Evaluation{
		makeEvaluation("lec-1", 3, 3, 3, 3, boolPtr(true), "2026-01-05"),
		makeEvaluation("lec-1", 3, 3, 3, 3, boolPtr(true), "2026-01-06"),
		makeEvaluation("lec-1", 3, 3, 3, 3, boolPtr(false), "2026-01-07"),
	}
	lecturers := []models.Lecturer{{ID: "lec-1", Nama: "Ustaz Hassan"}}

	result := CalculateLecturerComparison(evaluations, lecturers, []string{"lec-1"})
	require.Len(t, result, 1)

	assert.InDelta(t, 66.7, result[0].RecommendationYesPercent, 1e-9)
	assert.InDelta(t, 33.3, result[0].RecommendationNoPercent, 1e-9)
	assert.InDelta(t, 100.0, result[0].RecommendationYesPercent+result[0].RecommendationNoPercent, 1e-9)
}

func TestCalculateLecturerComparison_ZeroMatchesIsAllZero(t *testing.T) {
	lecturers := []models.Lecturer{{ID: "lec-1", Nama: "Ustaz Hassan"}}

	result := CalculateLecturerComparison(nil, lecturers, []string{"lec-1"})
	require.Len(t, result, 1)

	c := result[0]
	assert.Equal(t, "Ustaz Hassan", c.LecturerName)
	assert.Zero(t, c.AvgOverall)
	assert.Zero(t, c.RecommendationYesPercent)
	assert.Zero(t, c.RecommendationNoPercent)
	assert.Zero(t, c.TotalEvaluations)
}

func TestCalculateLecturerComparison_RoundsAfterMeanOfMeans(t *testing.T) {
	evaluations := []models.Evaluation{
		makeEvaluation("lec-1", 3, 3, 3, 2, boolPtr(true), "2026-01-05"),
		makeEvaluation("lec-1", 3, 3, 3, 3, boolPtr(true), "2026-01-06"),
		makeEvaluation("lec-1", 3, 3, 3, 3, boolPtr(true), "2026-01-07"),
	}
	lecturers := []models.Lecturer{{ID: "lec-1", Nama: "Ustaz Hassan"}}

	result := CalculateLecturerComparison(evaluations, lecturers, []string{"lec-1"})
	require.Len(t, result, 1)

	// Q4 mean is 8/3 = 2.666..., rounded to 2.67 only at the end.
	assert.InDelta(t, 2.67, result[0].AvgQ4, 1e-9)
	// Overall is (3+3+3+2.666...)/4 = 2.9166..., rounded to 2.92.
	assert.InDelta(t, 2.92, result[0].AvgOverall, 1e-9)
}

func TestCalculateLecturerComparison_DuplicateIDsComputedIndependently(t *testing.T) {
	evaluations := []models.Evaluation{
		makeEvaluation("lec-1", 4, 4, 4, 4, boolPtr(true), "2026-01-05"),
	}
	lecturers := []models.Lecturer{{ID: "lec-1", Nama: "Ustaz Hassan"}}

	result := CalculateLecturerComparison(evaluations, lecturers, []string{"lec-1", "lec-1"})
	require.Len(t, result, 2)
	assert.Equal(t, result[0], result[1])
}

func TestComparisonChartHelpers(t *testing.T) {
	labels := ComparisonLabels()
	assert.Equal(t, [4]string{"Tajuk", "Ilmu", "Penyampaian", "Masa"}, labels)

	values := ComparisonValues(models.LecturerComparison{AvgQ1: 1, AvgQ2: 2, AvgQ3: 3, AvgQ4: 4})
	assert.Equal(t, [4]float64{1, 2, 3, 4}, values)

	assert.Len(t, ComparisonColors(3), 3)
	assert.Len(t, ComparisonColors(20), 8)
	assert.Empty(t, ComparisonColors(-1))
}
