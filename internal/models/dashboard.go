package models

import "time"

// DashboardOverview is the composed admin landing payload. It is
// assembled from one evaluation scan and cached as a whole.
type DashboardOverview struct {
	TotalEvaluations    int                 `json:"total_evaluations"`
	TotalLecturers      int                 `json:"total_lecturers"`
	AverageScore        float64             `json:"average_score"`
	RecommendationStats RecommendationStats `json:"recommendation_stats"`
	Scores              []LecturerScore     `json:"scores"`
	Trend               []TrendPoint        `json:"trend"`
	TrendDirection      string              `json:"trend_direction"`
	Alerts              []LecturerAlert     `json:"alerts"`
	GeneratedAt         time.Time           `json:"generated_at"`
}
