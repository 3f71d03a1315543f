package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

// Section weights for form progress. Evaluator info contributes 30
// points, selecting at least one lecturer 20, and the rating grid the
// remaining 50.
const (
	progressWeightEvaluator = 30
	progressWeightSelection = 20
	progressWeightRatings   = 50
)

// FormState is the client-reported draft snapshot used for progress
// feedback. Umur stays a raw string because the field is unvalidated at
// this stage.
type FormState struct {
	EvaluatorInfo     models.DraftEvaluatorInfo     `json:"evaluator_info"`
	SelectedLecturers []string                      `json:"selected_lecturers"`
	Ratings           map[string]models.DraftRating `json:"ratings"`
}

// CalculateProgress scores the form 0..100. The rating section only
// counts once a lecturer is selected.
func CalculateProgress(state FormState) int {
	progress := float64(CalculateEvaluatorProgress(state.EvaluatorInfo)) / 100 * progressWeightEvaluator

	if len(state.SelectedLecturers) > 0 {
		progress += progressWeightSelection
		progress += float64(CalculateRatingsProgress(state.SelectedLecturers, state.Ratings)) / 100 * progressWeightRatings
	}

	return int(math.Round(progress))
}

// CalculateEvaluatorProgress scores the respondent block 0..100 at 25
// points per filled field.
func CalculateEvaluatorProgress(info models.DraftEvaluatorInfo) int {
	progress := 0
	if strings.TrimSpace(info.Nama) != "" {
		progress += 25
	}
	if umurFilled(info.Umur) {
		progress += 25
	}
	if strings.TrimSpace(info.Alamat) != "" {
		progress += 25
	}
	if strings.TrimSpace(info.Tarikh) != "" {
		progress += 25
	}
	return progress
}

func umurFilled(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n > 0
	}
	return true
}

// CalculateRatingsProgress scores the rating grid 0..100 over four
// fields per selected lecturer. Lecturers without a draft entry count
// as fully unanswered.
func CalculateRatingsProgress(selectedLecturers []string, ratings map[string]models.DraftRating) int {
	if len(selectedLecturers) == 0 {
		return 0
	}

	totalFields := len(selectedLecturers) * 4
	completed := 0
	for _, id := range selectedLecturers {
		r, ok := ratings[id]
		if !ok {
			continue
		}
		if r.Q1Tajuk != nil {
			completed++
		}
		if r.Q2Ilmu != nil {
			completed++
		}
		if r.Q3Penyampaian != nil {
			completed++
		}
		if r.Q4Masa != nil {
			completed++
		}
	}

	return int(math.Round(float64(completed) / float64(totalFields) * 100))
}

// IsFormComplete reports submission readiness.
func IsFormComplete(state FormState) bool {
	return CalculateProgress(state) == 100
}

// ProgressColor maps the percentage to the form's progress bar class.
func ProgressColor(progress int) string {
	switch {
	case progress < 30:
		return "progress-low"
	case progress < 60:
		return "progress-medium"
	case progress < 100:
		return "progress-high"
	default:
		return "progress-complete"
	}
}

// ProgressStatus maps the percentage to the form's status line.
func ProgressStatus(progress int) string {
	switch {
	case progress == 0:
		return "Belum mula"
	case progress < 30:
		return "Baru bermula"
	case progress < 60:
		return "Separuh siap"
	case progress < 100:
		return "Hampir siap"
	default:
		return "Sedia untuk hantar"
	}
}
