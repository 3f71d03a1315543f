package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/export"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/storage"
)

func TestValidateReportRequest(t *testing.T) {
	errs := ValidateReportRequest(ReportRequest{})
	assert.Contains(t, errs, "title is required")
	assert.Contains(t, errs, "dateRange with from and to is required")

	errs = ValidateReportRequest(ReportRequest{Title: "Laporan", DateFrom: "1/1/2026", DateTo: "2026-01-31"})
	require.Len(t, errs, 1)
	assert.Equal(t, "date_from must be YYYY-MM-DD", errs[0])

	errs = ValidateReportRequest(ReportRequest{Title: "Laporan", DateFrom: "2026-01-01", DateTo: "2026-01-31"})
	assert.Empty(t, errs)
}

func TestBuildEvaluationDataset(t *testing.T) {
	evaluation := makeEvaluation("lec-1", 4, 3, 4, 3, boolPtr(true), "2026-01-10")
	evaluation.KomenPenceramah = strPtr("Sangat baik")
	evaluation.Session = &models.LectureSession{Minggu: 2, JenisKuliah: models.LectureTypeSubuh}
	orphan := makeEvaluation("lec-x", 2, 2, 2, 2, nil, "2026-01-11")

	dataset := BuildEvaluationDataset(
		[]models.Evaluation{evaluation, orphan},
		map[string]string{"lec-1": "Ustaz Hassan"},
	)

	require.Len(t, dataset.Headers, 15)
	assert.Equal(t, "Nama Penilai", dataset.Headers[0])
	assert.Equal(t, "Cadangan Masjid", dataset.Headers[14])
	require.Len(t, dataset.Rows, 2)

	row := dataset.Rows[0]
	assert.Equal(t, "Ustaz Hassan", row[4])
	assert.Equal(t, "2", row[5])
	assert.Equal(t, models.LectureTypeSubuh, row[6])
	assert.Equal(t, "3.50", row[11])
	assert.Equal(t, "A - Cemerlang", row[12])
	assert.Equal(t, "Sangat baik", row[13])
	assert.Equal(t, "", row[14])

	// A lecturer id with no matching name falls back.
	assert.Equal(t, "Unknown", dataset.Rows[1][4])
}

func TestBuildLecturerSummaryDataset_MalayLabels(t *testing.T) {
	dataset := BuildLecturerSummaryDataset([]models.LecturerSummary{
		{LecturerName: "Ustaz Hassan", AvgOverall: 3.6, TotalEvaluations: 5, Trend: "up", RiskLevel: models.RiskLow},
		{LecturerName: "Ustaz Karim", AvgOverall: 1.8, TotalEvaluations: 2, Trend: "down", RiskLevel: models.RiskHigh},
		{LecturerName: "Ustaz Malik", AvgOverall: 2.7, TotalEvaluations: 4, RiskLevel: models.RiskMedium},
	})

	require.Len(t, dataset.Headers, 10)
	require.Len(t, dataset.Rows, 3)

	assert.Equal(t, "Meningkat", dataset.Rows[0][8])
	assert.Equal(t, "Rendah", dataset.Rows[0][9])
	assert.Equal(t, "A - Cemerlang", dataset.Rows[0][6])

	assert.Equal(t, "Menurun", dataset.Rows[1][8])
	assert.Equal(t, "Tinggi", dataset.Rows[1][9])

	assert.Equal(t, "Stabil", dataset.Rows[2][8])
	assert.Equal(t, "Sederhana", dataset.Rows[2][9])
}

func TestBuildExecutiveSummaryLines(t *testing.T) {
	lines := BuildExecutiveSummaryLines(models.ReportSummary{
		Period:           "2026-01-01 - 2026-01-31",
		TotalEvaluations: 12,
		TotalLecturers:   3,
		AverageScore:     3.2,
		TopPerformer:     "Ustaz Hassan (3.80)",
		Strengths:        []string{"Kekuatan pertama", "Kekuatan kedua"},
		Improvements:     []string{"Penambahbaikan pertama"},
	})

	assert.Equal(t, []string{"LAPORAN RINGKASAN EKSEKUTIF"}, lines[0])
	assert.Equal(t, []string{"Tempoh", "2026-01-01 - 2026-01-31"}, lines[2])
	assert.Equal(t, []string{"Jumlah Penilaian", "12"}, lines[3])
	assert.Equal(t, []string{"Purata Skor Keseluruhan", "3.20"}, lines[5])
	assert.Equal(t, []string{"Gred Keseluruhan", "B - Baik"}, lines[6])
	assert.Equal(t, []string{"Prestasi Terbaik", "Ustaz Hassan (3.80)"}, lines[9])
	// Empty attention slot renders a dash.
	assert.Equal(t, []string{"Perlu Perhatian", "-"}, lines[10])
	assert.Equal(t, []string{"KEKUATAN"}, lines[12])
	assert.Equal(t, []string{"1", "Kekuatan pertama"}, lines[13])
	assert.Equal(t, []string{"2", "Kekuatan kedua"}, lines[14])
	assert.Equal(t, []string{"BIDANG PENAMBAHBAIKAN"}, lines[16])
	assert.Equal(t, []string{"1", "Penambahbaikan pertama"}, lines[17])
}

func TestBuildComparisonDataset(t *testing.T) {
	dataset := BuildComparisonDataset(
		PeriodData{
			Label: "2026-02-01 - 2026-02-28",
			Summaries: []models.LecturerSummary{
				{LecturerName: "Ustaz Hassan", AvgOverall: 3.5},
				{LecturerName: "Ustaz Karim", AvgOverall: 2.0},
				{LecturerName: "Ustaz Malik", AvgOverall: 3.0},
			},
		},
		PeriodData{
			Label: "2026-01-01 - 2026-01-31",
			Summaries: []models.LecturerSummary{
				{LecturerName: "Ustaz Hassan", AvgOverall: 3.2},
				{LecturerName: "Ustaz Karim", AvgOverall: 2.5},
			},
		},
	)

	require.Len(t, dataset.Rows, 3)

	assert.Equal(t, []string{"Ustaz Hassan", "3.50", "3.20", "+0.30", "Meningkat"}, dataset.Rows[0])
	assert.Equal(t, []string{"Ustaz Karim", "2.00", "2.50", "-0.50", "Menurun"}, dataset.Rows[1])
	// New lecturers show no previous score or change value.
	assert.Equal(t, []string{"Ustaz Malik", "3.00", "-", "Baru", "Stabil"}, dataset.Rows[2])
}

func TestBuildLecturerSummaries_RecommendationAndRisk(t *testing.T) {
	evaluations := []models.Evaluation{
		makeEvaluation("lec-1", 4, 4, 4, 4, boolPtr(true), "2026-01-05"),
		makeEvaluation("lec-1", 3, 3, 3, 3, boolPtr(true), "2026-01-06"),
		makeEvaluation("lec-1", 4, 3, 4, 3, boolPtr(false), "2026-01-07"),
		makeEvaluation("lec-2", 1, 1, 2, 1, boolPtr(false), "2026-01-08"),
	}
	names := map[string]string{"lec-1": "Ustaz Hassan", "lec-2": "Ustaz Karim"}

	summaries := BuildLecturerSummaries(evaluations, names)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Ustaz Hassan", summaries[0].LecturerName)
	assert.InDelta(t, 66.67, summaries[0].RecommendationYesPercent, 0.01)
	assert.Equal(t, models.RiskLow, summaries[0].RiskLevel)

	assert.Equal(t, "Ustaz Karim", summaries[1].LecturerName)
	assert.Equal(t, models.RiskHigh, summaries[1].RiskLevel)
}

func TestPrecedingRange(t *testing.T) {
	from, to, err := precedingRange("2026-02-01", "2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-04", from)
	assert.Equal(t, "2026-01-31", to)

	from, to, err = precedingRange("2026-01-10", "2026-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-09", from)
	assert.Equal(t, "2026-01-09", to)

	_, _, err = precedingRange("2026-02-01", "2026-01-01")
	require.Error(t, err)
}

func newReportServiceForTest(t *testing.T, repo *fakeEvaluationRepo, lecturers *fakeLecturerRepo) *ReportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("report-test-secret", time.Hour)
	return NewReportService(repo, lecturers, store, signer, "http://localhost:8080/", zap.NewNop())
}

func TestReportService_ExportEvaluationsCSV(t *testing.T) {
	inRange := makeEvaluation("lec-1", 4, 3, 4, 3, boolPtr(true), "2026-01-10")
	outOfRange := makeEvaluation("lec-1", 1, 1, 1, 1, boolPtr(false), "2026-03-10")
	repo := &fakeEvaluationRepo{evaluations: []models.Evaluation{inRange, outOfRange}}
	lecturers := &fakeLecturerRepo{lecturers: []models.Lecturer{{ID: "lec-1", Nama: "Ustaz Hassan"}}}
	svc := newReportServiceForTest(t, repo, lecturers)

	file, err := svc.ExportEvaluationsCSV(context.Background(), ReportRequest{
		Title: "Laporan Januari", DateFrom: "2026-01-01", DateTo: "2026-01-31",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(file.Filename, "penilaian-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, file.DownloadURL, "http://localhost:8080/api/v1/reports/download/")

	// The signed URL resolves back to the stored file, which holds the
	// header line plus the single in-range record.
	token := file.DownloadURL[strings.LastIndex(file.DownloadURL, "/")+1:]
	relPath, err := svc.Open(token)
	require.NoError(t, err)

	f, err := svc.storage.Open(relPath)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	lines := strings.Split(strings.TrimSpace(string(buf[:n])), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Ustaz Hassan")
	assert.NotContains(t, string(buf[:n]), "2026-03-10")
}

func TestReportService_ExportRejectsInvalidRequest(t *testing.T) {
	svc := newReportServiceForTest(t, &fakeEvaluationRepo{}, &fakeLecturerRepo{})

	_, err := svc.ExportEvaluationsCSV(context.Background(), ReportRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReportPayload.Code, appErrors.FromError(err).Code)

	_, err = svc.ExportPDF(context.Background(), ReportRequest{Title: "Laporan"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReportPayload.Code, appErrors.FromError(err).Code)
}

func TestReportService_OpenRejectsTamperedToken(t *testing.T) {
	svc := newReportServiceForTest(t, &fakeEvaluationRepo{}, &fakeLecturerRepo{})

	_, err := svc.Open("not.a.valid.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCSVExporter_QuotesEmbeddedCommas(t *testing.T) {
	exporter := export.NewCSVExporter()
	data, err := exporter.Render(export.Dataset{
		Headers: []string{"Nama", "Komen"},
		Rows:    [][]string{{"Ahmad", `baik, "hebat"`}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"baik, ""hebat"""`)
}
