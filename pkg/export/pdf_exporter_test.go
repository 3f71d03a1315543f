package export

import (
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func sampleDocument(scoreRows, evaluationRows int) ReportDocument {
	doc := ReportDocument{
		Heading:     "Masjid Al-Muttaqin Wangsa Melawati",
		Title:       "Laporan Penilaian Kuliah",
		DateFrom:    "2026-01-01",
		DateTo:      "2026-01-31",
		GeneratedAt: "2026-02-01 08:00",
		Summary: ReportSummaryBlock{
			TotalEvaluations:  evaluationRows,
			AverageScore:      3.4,
			RecommendationYes: 8,
			RecommendationNo:  2,
		},
	}
	for i := 0; i < scoreRows; i++ {
		doc.Scores = append(doc.Scores, ScoreRow{
			LecturerName: fmt.Sprintf("Ustaz %d", i+1),
			AvgQ1:        3.1, AvgQ2: 3.2, AvgQ3: 3.3, AvgQ4: 3.4,
			AvgOverall:  3.25,
			Count:       4,
			StatusLabel: "Baik",
		})
	}
	for i := 0; i < evaluationRows; i++ {
		doc.Evaluations = append(doc.Evaluations, EvaluationRow{
			EvaluatorName: fmt.Sprintf("Penilai %d", i+1),
			LecturerName:  "Ustaz Ahmad",
			Date:          "2026-01-10",
			Week:          "2",
			LectureType:   "Maghrib",
			Score:         3.5,
			Recommended:   true,
		})
	}
	return doc
}

func TestPDFExporter_RequiresTitle(t *testing.T) {
	_, err := NewPDFExporter().Render(ReportDocument{})
	require.Error(t, err)
}

func TestPDFExporter_RendersEvaluationsAfterLongScoreTable(t *testing.T) {
	exporter := NewPDFExporter()

	// Enough score rows to push the cursor past the single-page cutoff.
	withEvaluations := sampleDocument(18, 10)
	withoutEvaluations := sampleDocument(18, 0)

	full, err := exporter.Render(withEvaluations)
	require.NoError(t, err)
	scoresOnly, err := exporter.Render(withoutEvaluations)
	require.NoError(t, err)

	// The evaluation table must land on a fresh page, not be dropped.
	require.Greater(t, len(full), len(scoresOnly))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "Ahmad", truncate("Ahmad", 15))
	require.Equal(t, "Muhammad Haziq ", truncate("Muhammad Haziq bin Abdullah", 15))
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	name := "عبدالرحمن بن عوف الأنصاري"
	got := truncate(name, 15)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, 15, utf8.RuneCountInString(got))
}
