package service

import (
	"time"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

// DefaultTrendMonths is the dashboard window when none is configured.
const DefaultTrendMonths = 6

// Trend directions.
const (
	TrendImproving    = "improving"
	TrendDeclining    = "declining"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient"
)

var malayMonthNames = [12]string{
	"Jan", "Feb", "Mac", "Apr", "Mei", "Jun",
	"Jul", "Ogo", "Sep", "Okt", "Nov", "Dis",
}

// CalculateMonthlyTrend builds one point per calendar month for the last
// `months` months ending at `now`, oldest first. A month without
// evaluations gets a nil average and a zero count, never a zero average.
// Pass lecturerID to restrict to a single lecturer; empty means all.
func CalculateMonthlyTrend(evaluations []models.Evaluation, months int, lecturerID string, now time.Time) []models.TrendPoint {
	if months < 1 {
		months = DefaultTrendMonths
	}

	filtered := evaluations
	if lecturerID != "" {
		filtered = make([]models.Evaluation, 0, len(evaluations))
		for _, e := range evaluations {
			if e.LecturerID != nil && *e.LecturerID == lecturerID {
				filtered = append(filtered, e)
			}
		}
	}

	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, e := range filtered {
		t, err := time.Parse("2006-01-02", e.TarikhPenilaian)
		if err != nil {
			continue
		}
		key := t.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += EvaluationAverage(e)
		b.count++
	}

	points := make([]models.TrendPoint, 0, months)
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := months - 1; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		point := models.TrendPoint{
			Month: int(m.Month()),
			Year:  m.Year(),
			Label: malayMonthNames[m.Month()-1] + " " + m.Format("2006"),
		}
		if b, ok := buckets[m.Format("2006-01")]; ok {
			avg := b.sum / float64(b.count)
			point.AverageScore = &avg
			point.EvaluationCount = b.count
		}
		points = append(points, point)
	}

	return points
}

// ValidateTrendData checks the empty-month invariant: a zero count must
// pair with a nil average, and any non-nil average must lie in [1,4].
func ValidateTrendData(points []models.TrendPoint) bool {
	for _, p := range points {
		if p.EvaluationCount == 0 {
			if p.AverageScore != nil {
				return false
			}
			continue
		}
		if p.AverageScore == nil || *p.AverageScore < 1 || *p.AverageScore > 4 {
			return false
		}
	}
	return true
}

// TrendLabels returns the chart labels in point order.
func TrendLabels(points []models.TrendPoint) []string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = p.Label
	}
	return labels
}

// TrendValues returns the chart values in point order, nil for empty
// months.
func TrendValues(points []models.TrendPoint) []*float64 {
	values := make([]*float64, len(points))
	for i, p := range points {
		values[i] = p.AverageScore
	}
	return values
}

// TrendDirection compares the mean of the earlier half of the populated
// points against the later half. Fewer than two populated points is
// insufficient. A difference within 0.1 either way is stable.
func TrendDirection(points []models.TrendPoint) string {
	valid := make([]float64, 0, len(points))
	for _, p := range points {
		if p.AverageScore != nil {
			valid = append(valid, *p.AverageScore)
		}
	}
	if len(valid) < 2 {
		return TrendInsufficient
	}

	mid := len(valid) / 2
	firstAvg := mean(valid[:mid])
	secondAvg := mean(valid[mid:])

	diff := secondAvg - firstAvg
	if diff > 0.1 {
		return TrendImproving
	}
	if diff < -0.1 {
		return TrendDeclining
	}
	return TrendStable
}

func mean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
