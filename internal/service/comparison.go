package service

import (
	"math"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CalculateLecturerComparison computes the comparison aggregate for each
// requested lecturer id. Request order is preserved and duplicate ids are
// computed independently. A lecturer with zero matching evaluations gets
// all-zero numeric fields — not null, not NaN. Means are rounded to two
// decimals after the mean-of-means step; the recommendation percentages
// are rounded to one decimal and sum to exactly 100 when any evaluations
// matched.
func CalculateLecturerComparison(evaluations []models.Evaluation, lecturers []models.Lecturer, lecturerIDs []string) []models.LecturerComparison {
	nameByID := make(map[string]string, len(lecturers))
	for _, l := range lecturers {
		nameByID[l.ID] = l.Nama
	}

	result := make([]models.LecturerComparison, 0, len(lecturerIDs))
	for _, id := range lecturerIDs {
		name, ok := nameByID[id]
		if !ok || name == "" {
			name = "Unknown"
		}

		var sumQ1, sumQ2, sumQ3, sumQ4, yes, total int
		for _, e := range evaluations {
			if e.LecturerID == nil || *e.LecturerID != id {
				continue
			}
			sumQ1 += e.Q1Tajuk
			sumQ2 += e.Q2Ilmu
			sumQ3 += e.Q3Penyampaian
			sumQ4 += e.Q4Masa
			if e.Recommended() {
				yes++
			}
			total++
		}

		if total == 0 {
			result = append(result, models.LecturerComparison{LecturerID: id, LecturerName: name})
			continue
		}

		n := float64(total)
		avgQ1 := float64(sumQ1) / n
		avgQ2 := float64(sumQ2) / n
		avgQ3 := float64(sumQ3) / n
		avgQ4 := float64(sumQ4) / n
		avgOverall := (avgQ1 + avgQ2 + avgQ3 + avgQ4) / 4

		yesPercent := round1(float64(yes) / n * 100)

		result = append(result, models.LecturerComparison{
			LecturerID:               id,
			LecturerName:             name,
			AvgQ1:                    round2(avgQ1),
			AvgQ2:                    round2(avgQ2),
			AvgQ3:                    round2(avgQ3),
			AvgQ4:                    round2(avgQ4),
			AvgOverall:               round2(avgOverall),
			RecommendationYesPercent: yesPercent,
			RecommendationNoPercent:  round1(100 - yesPercent),
			TotalEvaluations:         total,
		})
	}

	return result
}

// ComparisonLabels is the fixed ordered label set for comparison charts.
// It must stay positionally aligned with ComparisonValues.
func ComparisonLabels() [4]string {
	return [4]string{"Tajuk", "Ilmu", "Penyampaian", "Masa"}
}

// ComparisonValues returns the question averages in label order.
func ComparisonValues(c models.LecturerComparison) [4]float64 {
	return [4]float64{c.AvgQ1, c.AvgQ2, c.AvgQ3, c.AvgQ4}
}

// ComparisonColors returns up to count chart colours in a fixed palette.
func ComparisonColors(count int) []string {
	palette := []string{
		"rgba(59, 130, 246, 0.8)",
		"rgba(16, 185, 129, 0.8)",
		"rgba(245, 158, 11, 0.8)",
		"rgba(239, 68, 68, 0.8)",
		"rgba(139, 92, 246, 0.8)",
		"rgba(236, 72, 153, 0.8)",
		"rgba(20, 184, 166, 0.8)",
		"rgba(249, 115, 22, 0.8)",
	}
	if count > len(palette) {
		count = len(palette)
	}
	if count < 0 {
		count = 0
	}
	return palette[:count]
}
