package models

// LecturerScore is the derived per-lecturer aggregate. AvgOverall is the
// mean of the four per-question means, not the mean of all raw scores;
// the two coincide here because every record answers all four questions,
// but mean-of-means is the defined contract.
type LecturerScore struct {
	LecturerID       string  `json:"lecturer_id"`
	LecturerName     string  `json:"lecturer_name"`
	AvgQ1            float64 `json:"avg_q1"`
	AvgQ2            float64 `json:"avg_q2"`
	AvgQ3            float64 `json:"avg_q3"`
	AvgQ4            float64 `json:"avg_q4"`
	AvgOverall       float64 `json:"avg_overall"`
	TotalEvaluations int     `json:"total_evaluations"`
}

// RecommendationStats is the Ya/Tidak distribution. Null recommendations
// count as Tidak, so Ya+Tidak always equals the record count.
type RecommendationStats struct {
	Ya    int `json:"ya"`
	Tidak int `json:"tidak"`
}

// LecturerComparison is the aggregate computed over an explicit id subset
// for side-by-side views. All numeric fields are exactly 0 when the
// lecturer has no matching evaluations.
type LecturerComparison struct {
	LecturerID               string  `json:"lecturer_id"`
	LecturerName             string  `json:"lecturer_name"`
	AvgQ1                    float64 `json:"avg_q1"`
	AvgQ2                    float64 `json:"avg_q2"`
	AvgQ3                    float64 `json:"avg_q3"`
	AvgQ4                    float64 `json:"avg_q4"`
	AvgOverall               float64 `json:"avg_overall"`
	RecommendationYesPercent float64 `json:"recommendation_yes_percent"`
	RecommendationNoPercent  float64 `json:"recommendation_no_percent"`
	TotalEvaluations         int     `json:"total_evaluations"`
}

// TrendPoint is one calendar-month bucket of the evaluation trend.
// AverageScore is nil — never zero — for months without data, and the
// JSON null must survive serialization.
type TrendPoint struct {
	Month           int      `json:"month"`
	Year            int      `json:"year"`
	Label           string   `json:"label"`
	AverageScore    *float64 `json:"average_score"`
	EvaluationCount int      `json:"evaluation_count"`
}

// LecturerAlert flags a lecturer whose average fell below the threshold.
type LecturerAlert struct {
	LecturerID         string  `json:"lecturer_id"`
	LecturerName       string  `json:"lecturer_name"`
	AverageScore       float64 `json:"average_score"`
	EvaluationCount    int     `json:"evaluation_count"`
	LastEvaluationDate string  `json:"last_evaluation_date"`
}

// Risk tiers produced by the additive risk scoring rules.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskAssessment is the per-lecturer risk result with the human-readable
// factors that triggered it.
type RiskAssessment struct {
	LecturerName string   `json:"lecturer_name"`
	RiskLevel    string   `json:"risk_level"`
	Factors      []string `json:"factors"`
}

// ReportSummary is the executive block of generated reports.
type ReportSummary struct {
	Period                   string   `json:"period"`
	TotalEvaluations         int      `json:"total_evaluations"`
	TotalLecturers           int      `json:"total_lecturers"`
	AverageScore             float64  `json:"average_score"`
	RecommendationYesPercent float64  `json:"recommendation_yes_percent"`
	TopPerformer             string   `json:"top_performer,omitempty"`
	NeedsAttention           string   `json:"needs_attention,omitempty"`
	Strengths                []string `json:"strengths"`
	Improvements             []string `json:"improvements"`
}

// PerformerRef names a lecturer together with the score that singled
// them out.
type PerformerRef struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// AnalyticsInsights groups the qualitative findings.
type AnalyticsInsights struct {
	TopPerformer    *PerformerRef `json:"top_performer,omitempty"`
	NeedsAttention  *PerformerRef `json:"needs_attention,omitempty"`
	Strengths       []string      `json:"strengths"`
	Improvements    []string      `json:"improvements"`
	Recommendations []string      `json:"recommendations"`
	KeyFindings     []string      `json:"key_findings"`
}

// AnalyticsResult is the full derived analytics payload.
type AnalyticsResult struct {
	Summary        ReportSummary    `json:"summary"`
	Insights       AnalyticsInsights `json:"insights"`
	RiskAssessment []RiskAssessment `json:"risk_assessment"`
}

// LecturerSummary extends LecturerScore with recommendation ratio and the
// derived trend/risk markers used by summary exports.
type LecturerSummary struct {
	LecturerName             string  `json:"lecturer_name"`
	AvgQ1                    float64 `json:"avg_q1"`
	AvgQ2                    float64 `json:"avg_q2"`
	AvgQ3                    float64 `json:"avg_q3"`
	AvgQ4                    float64 `json:"avg_q4"`
	AvgOverall               float64 `json:"avg_overall"`
	RecommendationYesPercent float64 `json:"recommendation_yes_percent"`
	TotalEvaluations         int     `json:"total_evaluations"`
	Trend                    string  `json:"trend,omitempty"`
	RiskLevel                string  `json:"risk_level,omitempty"`
}
