package service

import (
	"sort"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

// Question keys for the four rating criteria.
const (
	QuestionTajuk       = "q1_tajuk"
	QuestionIlmu        = "q2_ilmu"
	QuestionPenyampaian = "q3_penyampaian"
	QuestionMasa        = "q4_masa"
)

func questionScore(e models.Evaluation, question string) int {
	switch question {
	case QuestionTajuk:
		return e.Q1Tajuk
	case QuestionIlmu:
		return e.Q2Ilmu
	case QuestionPenyampaian:
		return e.Q3Penyampaian
	case QuestionMasa:
		return e.Q4Masa
	}
	return 0
}

// EvaluationAverage is the mean of one record's four raw scores.
func EvaluationAverage(e models.Evaluation) float64 {
	return float64(e.Q1Tajuk+e.Q2Ilmu+e.Q3Penyampaian+e.Q4Masa) / 4
}

// CalculateLecturerScores groups evaluations by lecturer and computes the
// per-question means plus the overall mean-of-means. Records without a
// lecturer reference are excluded. Output is sorted descending by overall
// mean; ties keep first-seen grouping order. Ids missing from nameByID
// resolve to "Unknown".
func CalculateLecturerScores(evaluations []models.Evaluation, nameByID map[string]string) []models.LecturerScore {
	type totals struct {
		q1, q2, q3, q4 int
		count          int
	}

	order := make([]string, 0)
	byLecturer := make(map[string]*totals)

	for _, e := range evaluations {
		if e.LecturerID == nil {
			continue
		}
		id := *e.LecturerID
		t, ok := byLecturer[id]
		if !ok {
			t = &totals{}
			byLecturer[id] = t
			order = append(order, id)
		}
		t.q1 += e.Q1Tajuk
		t.q2 += e.Q2Ilmu
		t.q3 += e.Q3Penyampaian
		t.q4 += e.Q4Masa
		t.count++
	}

	scores := make([]models.LecturerScore, 0, len(order))
	for _, id := range order {
		t := byLecturer[id]
		n := float64(t.count)
		avgQ1 := float64(t.q1) / n
		avgQ2 := float64(t.q2) / n
		avgQ3 := float64(t.q3) / n
		avgQ4 := float64(t.q4) / n

		name, ok := nameByID[id]
		if !ok || name == "" {
			name = "Unknown"
		}

		scores = append(scores, models.LecturerScore{
			LecturerID:       id,
			LecturerName:     name,
			AvgQ1:            avgQ1,
			AvgQ2:            avgQ2,
			AvgQ3:            avgQ3,
			AvgQ4:            avgQ4,
			AvgOverall:       (avgQ1 + avgQ2 + avgQ3 + avgQ4) / 4,
			TotalEvaluations: t.count,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].AvgOverall > scores[j].AvgOverall
	})

	return scores
}

// CalculateRecommendationStats counts Ya/Tidak recommendations. A null
// recommendation counts as Tidak, so the two always sum to len(evaluations).
func CalculateRecommendationStats(evaluations []models.Evaluation) models.RecommendationStats {
	stats := models.RecommendationStats{}
	for _, e := range evaluations {
		if e.Recommended() {
			stats.Ya++
		} else {
			stats.Tidak++
		}
	}
	return stats
}

// CountEvaluationsPerLecturer maps lecturer id to evaluation count,
// excluding records without a lecturer reference.
func CountEvaluationsPerLecturer(evaluations []models.Evaluation) map[string]int {
	counts := make(map[string]int)
	for _, e := range evaluations {
		if e.LecturerID == nil {
			continue
		}
		counts[*e.LecturerID]++
	}
	return counts
}

// CalculateQuestionAverage returns the mean score for one question across
// all records. Empty input yields exactly 0, never NaN.
func CalculateQuestionAverage(evaluations []models.Evaluation, question string) float64 {
	if len(evaluations) == 0 {
		return 0
	}
	total := 0
	for _, e := range evaluations {
		total += questionScore(e, question)
	}
	return float64(total) / float64(len(evaluations))
}

// ReportFilter narrows an evaluation set for reporting.
type ReportFilter struct {
	LecturerID  string
	Week        int
	LectureType string
}

// FilterEvaluations applies the report filter. Week and lecture type
// require joined session data; records without a session never match
// those criteria.
func FilterEvaluations(evaluations []models.Evaluation, filter ReportFilter) []models.Evaluation {
	filtered := make([]models.Evaluation, 0, len(evaluations))
	for _, e := range evaluations {
		if filter.LecturerID != "" && (e.LecturerID == nil || *e.LecturerID != filter.LecturerID) {
			continue
		}
		if filter.Week != 0 && (e.Session == nil || e.Session.Minggu != filter.Week) {
			continue
		}
		if filter.LectureType != "" && (e.Session == nil || e.Session.JenisKuliah != filter.LectureType) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// TopLecturers returns the best n entries of an already-sorted score list.
func TopLecturers(scores []models.LecturerScore, n int) []models.LecturerScore {
	if n > len(scores) {
		n = len(scores)
	}
	return scores[:n]
}

// BottomLecturers returns the n lowest-scoring entries, worst first.
func BottomLecturers(scores []models.LecturerScore, n int) []models.LecturerScore {
	ascending := make([]models.LecturerScore, len(scores))
	copy(ascending, scores)
	sort.SliceStable(ascending, func(i, j int) bool {
		return ascending[i].AvgOverall < ascending[j].AvgOverall
	})
	if n > len(ascending) {
		n = len(ascending)
	}
	return ascending[:n]
}

// Grade maps a score to its report band.
func Grade(score float64) string {
	switch {
	case score >= 3.5:
		return "A - Cemerlang"
	case score >= 3.0:
		return "B - Baik"
	case score >= 2.5:
		return "C - Sederhana"
	case score >= 2.0:
		return "D - Perlu Perhatian"
	default:
		return "E - Kritikal"
	}
}
