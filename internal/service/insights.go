package service

import (
	"fmt"
	"sort"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

// GenerateAnalytics derives the executive summary, qualitative insights
// and per-lecturer risk assessment for a reporting period. Evaluations
// drive the recommendation ratio; the lecturer summaries drive everything
// score-based.
func GenerateAnalytics(evaluations []models.Evaluation, lecturerScores []models.LecturerSummary, period string) models.AnalyticsResult {
	totalEvaluations := len(evaluations)
	totalLecturers := len(lecturerScores)

	avgScore := 0.0
	for _, l := range lecturerScores {
		avgScore += l.AvgOverall
	}
	if totalLecturers > 0 {
		avgScore /= float64(totalLecturers)
	}

	recYes := 0
	for _, e := range evaluations {
		if e.Recommended() {
			recYes++
		}
	}
	recPercent := 0.0
	if totalEvaluations > 0 {
		recPercent = float64(recYes) / float64(totalEvaluations) * 100
	}

	sorted := make([]models.LecturerSummary, len(lecturerScores))
	copy(sorted, lecturerScores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AvgOverall > sorted[j].AvgOverall
	})

	var topPerformer, needsAttention *models.PerformerRef
	if len(sorted) > 0 {
		top := sorted[0]
		topPerformer = &models.PerformerRef{Name: top.LecturerName, Score: top.AvgOverall}
		last := sorted[len(sorted)-1]
		if last.AvgOverall < 2.5 {
			needsAttention = &models.PerformerRef{Name: last.LecturerName, Score: last.AvgOverall}
		}
	}

	analysis := analyzeCriteria(lecturerScores)
	strengths := buildStrengths(analysis, avgScore, recPercent)
	improvements := buildImprovements(analysis, avgScore, recPercent)
	recommendations := buildRecommendations(analysis, lecturerScores)
	keyFindings := buildKeyFindings(totalEvaluations, avgScore, recPercent, lecturerScores)

	summary := models.ReportSummary{
		Period:                   period,
		TotalEvaluations:         totalEvaluations,
		TotalLecturers:           totalLecturers,
		AverageScore:             avgScore,
		RecommendationYesPercent: recPercent,
		Strengths:                strengths,
		Improvements:             improvements,
	}
	if topPerformer != nil {
		summary.TopPerformer = topPerformer.Name
	}
	if needsAttention != nil {
		summary.NeedsAttention = needsAttention.Name
	}

	return models.AnalyticsResult{
		Summary: summary,
		Insights: models.AnalyticsInsights{
			TopPerformer:    topPerformer,
			NeedsAttention:  needsAttention,
			Strengths:       strengths,
			Improvements:    improvements,
			Recommendations: recommendations,
			KeyFindings:     keyFindings,
		},
		RiskAssessment: AssessRisks(lecturerScores),
	}
}

type criteriaAnalysis struct {
	avgQ1, avgQ2, avgQ3, avgQ4 float64
	strongestName              string
	strongestScore             float64
	weakestName                string
	weakestScore               float64
}

func analyzeCriteria(lecturerScores []models.LecturerSummary) criteriaAnalysis {
	if len(lecturerScores) == 0 {
		return criteriaAnalysis{strongestName: "Tiada", weakestName: "Tiada"}
	}

	n := float64(len(lecturerScores))
	a := criteriaAnalysis{}
	for _, l := range lecturerScores {
		a.avgQ1 += l.AvgQ1
		a.avgQ2 += l.AvgQ2
		a.avgQ3 += l.AvgQ3
		a.avgQ4 += l.AvgQ4
	}
	a.avgQ1 /= n
	a.avgQ2 /= n
	a.avgQ3 /= n
	a.avgQ4 /= n

	type criterion struct {
		name  string
		score float64
	}
	criteria := []criterion{
		{"Kesesuaian Tajuk", a.avgQ1},
		{"Penguasaan Ilmu", a.avgQ2},
		{"Teknik Penyampaian", a.avgQ3},
		{"Pengurusan Masa", a.avgQ4},
	}
	sort.SliceStable(criteria, func(i, j int) bool {
		return criteria[i].score > criteria[j].score
	})

	a.strongestName = criteria[0].name
	a.strongestScore = criteria[0].score
	a.weakestName = criteria[len(criteria)-1].name
	a.weakestScore = criteria[len(criteria)-1].score
	return a
}

func buildStrengths(a criteriaAnalysis, avgScore, recPercent float64) []string {
	strengths := make([]string, 0)

	if avgScore >= 3.5 {
		strengths = append(strengths, "Prestasi keseluruhan cemerlang dengan purata skor melebihi 3.5")
	} else if avgScore >= 3.0 {
		strengths = append(strengths, "Prestasi keseluruhan baik dengan purata skor melebihi 3.0")
	}

	if recPercent >= 90 {
		strengths = append(strengths, "Kadar cadangan positif sangat tinggi (>90%)")
	} else if recPercent >= 80 {
		strengths = append(strengths, "Kadar cadangan positif tinggi (>80%)")
	}

	if a.strongestScore >= 3.5 {
		strengths = append(strengths, fmt.Sprintf("%s menunjukkan prestasi cemerlang (%.2f/4.00)", a.strongestName, a.strongestScore))
	}

	return strengths
}

func buildImprovements(a criteriaAnalysis, avgScore, recPercent float64) []string {
	improvements := make([]string, 0)

	if avgScore < 2.5 {
		improvements = append(improvements, "Purata skor keseluruhan perlu ditingkatkan segera")
	} else if avgScore < 3.0 {
		improvements = append(improvements, "Purata skor keseluruhan boleh diperbaiki")
	}

	if recPercent < 70 {
		improvements = append(improvements, "Kadar cadangan positif perlu ditingkatkan")
	}

	if a.weakestScore < 2.5 {
		improvements = append(improvements, fmt.Sprintf("%s memerlukan perhatian segera (%.2f/4.00)", a.weakestName, a.weakestScore))
	} else if a.weakestScore < 3.0 {
		improvements = append(improvements, fmt.Sprintf("%s boleh diperbaiki (%.2f/4.00)", a.weakestName, a.weakestScore))
	}

	return improvements
}

func buildRecommendations(a criteriaAnalysis, lecturerScores []models.LecturerSummary) []string {
	recommendations := make([]string, 0)

	low := 0
	for _, l := range lecturerScores {
		if l.AvgOverall < 2.5 {
			low++
		}
	}
	if low > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Adakan sesi bimbingan untuk %d penceramah dengan skor rendah", low))
	}

	if a.avgQ3 < 2.5 {
		recommendations = append(recommendations, "Anjurkan bengkel teknik penyampaian untuk semua penceramah")
	}
	if a.avgQ4 < 2.5 {
		recommendations = append(recommendations, "Sediakan panduan pengurusan masa kuliah")
	}
	if a.avgQ1 < 2.5 {
		recommendations = append(recommendations, "Kaji semula proses pemilihan tajuk kuliah")
	}

	if len(lecturerScores) > 0 {
		sum := 0.0
		for _, l := range lecturerScores {
			sum += l.RecommendationYesPercent
		}
		if sum/float64(len(lecturerScores)) < 70 {
			recommendations = append(recommendations, "Tingkatkan program pembangunan profesional penceramah")
		}
	}

	return recommendations
}

func buildKeyFindings(totalEvaluations int, avgScore, recPercent float64, lecturerScores []models.LecturerSummary) []string {
	findings := []string{
		fmt.Sprintf("Sebanyak %d penilaian telah dikumpul untuk tempoh ini", totalEvaluations),
		fmt.Sprintf("Purata skor keseluruhan adalah %.2f/4.00", avgScore),
		fmt.Sprintf("%.1f%% penceramah dicadangkan untuk diteruskan", recPercent),
	}

	high, low := 0, 0
	for _, l := range lecturerScores {
		if l.AvgOverall >= 3.5 {
			high++
		}
		if l.AvgOverall < 2.5 {
			low++
		}
	}
	if high > 0 {
		findings = append(findings, fmt.Sprintf("%d penceramah mencapai prestasi cemerlang (≥3.5)", high))
	}
	if low > 0 {
		findings = append(findings, fmt.Sprintf("%d penceramah memerlukan perhatian khusus (<2.5)", low))
	}

	return findings
}

// AssessRisks applies the additive risk rules per lecturer. Points come
// from a low average (40/25/10), a low recommendation rate (30/15) and a
// sample below three evaluations (10); totals of 50+ are high risk, 25+
// medium, anything less low.
func AssessRisks(lecturerScores []models.LecturerSummary) []models.RiskAssessment {
	assessments := make([]models.RiskAssessment, 0, len(lecturerScores))
	for _, l := range lecturerScores {
		factors := make([]string, 0)
		score := 0

		if l.AvgOverall < 2.0 {
			score += 40
			factors = append(factors, "Skor purata sangat rendah")
		} else if l.AvgOverall < 2.5 {
			score += 25
			factors = append(factors, "Skor purata rendah")
		} else if l.AvgOverall < 3.0 {
			score += 10
			factors = append(factors, "Skor purata di bawah paras")
		}

		if l.RecommendationYesPercent < 50 {
			score += 30
			factors = append(factors, "Kadar cadangan positif rendah")
		} else if l.RecommendationYesPercent < 70 {
			score += 15
			factors = append(factors, "Kadar cadangan positif sederhana")
		}

		if l.TotalEvaluations < 3 {
			score += 10
			factors = append(factors, "Bilangan penilaian terlalu sedikit")
		}

		level := models.RiskLow
		if score >= 50 {
			level = models.RiskHigh
		} else if score >= 25 {
			level = models.RiskMedium
		}

		assessments = append(assessments, models.RiskAssessment{
			LecturerName: l.LecturerName,
			RiskLevel:    level,
			Factors:      factors,
		})
	}
	return assessments
}

// ScoreDelta classifies the change between two period scores with the
// same 0.1 dead band used by the monthly trend.
func ScoreDelta(current, previous float64) string {
	diff := current - previous
	if diff > 0.1 {
		return "up"
	}
	if diff < -0.1 {
		return "down"
	}
	return "stable"
}
