package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

func alertEvaluation(lecturerID, name string, q int, date string) models.Evaluation {
	e := makeEvaluation(lecturerID, q, q, q, q, nil, date)
	e.Lecturer = &models.Lecturer{ID: lecturerID, Nama: name}
	return e
}

func TestLowScoreAlerts_StrictlyBelowThreshold(t *testing.T) {
	evaluations := []models.Evaluation{
		alertEvaluation("lec-1", "Ustaz Hassan", 2, "2026-01-05"),
		alertEvaluation("lec-2", "Ustaz Karim", 1, "2026-01-06"),
	}

	alerts := LowScoreAlerts(evaluations, 2.0)
	require.Len(t, alerts, 1)
	// Exactly at the threshold is not an alert.
	assert.Equal(t, "lec-2", alerts[0].LecturerID)
}

func TestLowScoreAlerts_SortedWorstFirst(t *testing.T) {
	evaluations := []models.Evaluation{
		alertEvaluation("lec-1", "Ustaz Hassan", 2, "2026-01-05"),
		alertEvaluation("lec-2", "Ustaz Karim", 1, "2026-01-06"),
	}

	alerts := LowScoreAlerts(evaluations, 3.0)
	require.Len(t, alerts, 2)
	assert.Equal(t, "lec-2", alerts[0].LecturerID)
	assert.Equal(t, "lec-1", alerts[1].LecturerID)
}

func TestLowScoreAlerts_ThresholdClamped(t *testing.T) {
	evaluations := []models.Evaluation{
		alertEvaluation("lec-1", "Ustaz Hassan", 3, "2026-01-05"),
	}

	// 10 clamps to 4, so a 3.0 average is still an alert.
	assert.Len(t, LowScoreAlerts(evaluations, 10), 1)
	// 0 clamps to 1; nothing scores below 1.
	assert.Empty(t, LowScoreAlerts(evaluations, 0))
}

func TestLowScoreAlerts_SkipsIncompleteRecords(t *testing.T) {
	missingLecturerRow := makeEvaluation("lec-1", 1, 1, 1, 1, nil, "2026-01-05")
	missingReference := alertEvaluation("", "Ustaz Hassan", 1, "2026-01-05")
	missingReference.LecturerID = nil

	alerts := LowScoreAlerts([]models.Evaluation{missingLecturerRow, missingReference}, 4)
	assert.Empty(t, alerts)
}

func TestLowScoreAlerts_LastEvaluationDateIsMax(t *testing.T) {
	evaluations := []models.Evaluation{
		alertEvaluation("lec-1", "Ustaz Hassan", 1, "2026-02-10"),
		alertEvaluation("lec-1", "Ustaz Hassan", 1, "2026-01-05"),
		alertEvaluation("lec-1", "Ustaz Hassan", 1, "2026-02-01"),
	}

	alerts := LowScoreAlerts(evaluations, 2.0)
	require.Len(t, alerts, 1)
	assert.Equal(t, "2026-02-10", alerts[0].LastEvaluationDate)
	assert.Equal(t, 3, alerts[0].EvaluationCount)
}

func TestAlertSeverityBoundaries(t *testing.T) {
	assert.Equal(t, SeverityCritical, AlertSeverity(1.49))
	assert.Equal(t, SeverityWarning, AlertSeverity(1.5))
	assert.Equal(t, SeverityWarning, AlertSeverity(1.99))
	assert.Equal(t, SeverityNone, AlertSeverity(2.0))
	assert.Equal(t, SeverityNone, AlertSeverity(3.5))
}

func TestHasLowScoreAlert(t *testing.T) {
	evaluations := []models.Evaluation{
		alertEvaluation("lec-1", "Ustaz Hassan", 1, "2026-01-05"),
		alertEvaluation("lec-2", "Ustaz Karim", 4, "2026-01-05"),
	}

	assert.True(t, HasLowScoreAlert(evaluations, "lec-1", 2.0))
	assert.False(t, HasLowScoreAlert(evaluations, "lec-2", 2.0))
}

func TestFormatAlertMessage(t *testing.T) {
	critical := models.LecturerAlert{LecturerName: "Ustaz Hassan", AverageScore: 1.25, EvaluationCount: 4}
	assert.Equal(t, "⚠️ Kritikal: Ustaz Hassan mempunyai purata skor 1.25/4.00 (4 penilaian)", FormatAlertMessage(critical))

	warning := models.LecturerAlert{LecturerName: "Ustaz Karim", AverageScore: 1.75, EvaluationCount: 2}
	assert.Equal(t, "⚡ Amaran: Ustaz Karim mempunyai purata skor 1.75/4.00 (2 penilaian)", FormatAlertMessage(warning))
}
