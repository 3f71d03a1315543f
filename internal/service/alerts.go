package service

import (
	"fmt"
	"sort"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

// DefaultAlertThreshold is used when no threshold is configured.
const DefaultAlertThreshold = 2.0

// Alert severities.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityNone     = "none"
)

func clampThreshold(threshold float64) float64 {
	if threshold < 1 {
		return 1
	}
	if threshold > 4 {
		return 4
	}
	return threshold
}

// LowScoreAlerts returns lecturers whose average score sits strictly
// below the threshold (clamped into [1,4]), worst first. Records missing
// either the lecturer id or the joined lecturer row are skipped entirely.
// The last evaluation date is the lexicographic maximum, which is also
// the chronological maximum for ISO dates.
func LowScoreAlerts(evaluations []models.Evaluation, threshold float64) []models.LecturerAlert {
	threshold = clampThreshold(threshold)

	type group struct {
		name     string
		sum      float64
		count    int
		lastDate string
	}

	order := make([]string, 0)
	groups := make(map[string]*group)

	for _, e := range evaluations {
		if e.LecturerID == nil || e.Lecturer == nil {
			continue
		}
		id := *e.LecturerID
		g, ok := groups[id]
		if !ok {
			g = &group{name: e.Lecturer.Nama}
			groups[id] = g
			order = append(order, id)
		}
		g.sum += EvaluationAverage(e)
		g.count++
		if g.lastDate == "" || e.TarikhPenilaian > g.lastDate {
			g.lastDate = e.TarikhPenilaian
		}
	}

	alerts := make([]models.LecturerAlert, 0)
	for _, id := range order {
		g := groups[id]
		avg := g.sum / float64(g.count)
		if avg < threshold {
			alerts = append(alerts, models.LecturerAlert{
				LecturerID:         id,
				LecturerName:       g.name,
				AverageScore:       avg,
				EvaluationCount:    g.count,
				LastEvaluationDate: g.lastDate,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].AverageScore < alerts[j].AverageScore
	})

	return alerts
}

// HasLowScoreAlert reports whether the given lecturer appears in the
// alert list for the threshold.
func HasLowScoreAlert(evaluations []models.Evaluation, lecturerID string, threshold float64) bool {
	for _, alert := range LowScoreAlerts(evaluations, threshold) {
		if alert.LecturerID == lecturerID {
			return true
		}
	}
	return false
}

// AlertSeverity buckets a score: below 1.5 is critical, below 2.0 is a
// warning, 2.0 and up is none.
func AlertSeverity(averageScore float64) string {
	if averageScore < 1.5 {
		return SeverityCritical
	}
	if averageScore < 2.0 {
		return SeverityWarning
	}
	return SeverityNone
}

// FormatAlertMessage renders the alert for display and notification text.
func FormatAlertMessage(alert models.LecturerAlert) string {
	prefix := "⚡ Amaran"
	if AlertSeverity(alert.AverageScore) == SeverityCritical {
		prefix = "⚠️ Kritikal"
	}
	return fmt.Sprintf("%s: %s mempunyai purata skor %.2f/4.00 (%d penilaian)",
		prefix, alert.LecturerName, alert.AverageScore, alert.EvaluationCount)
}
