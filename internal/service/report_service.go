package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/export"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/storage"
)

const reportHeading = "Masjid Al-Muttaqin Wangsa Melawati"

// ReportRequest scopes a generated report.
type ReportRequest struct {
	Title    string `json:"title"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Filter   ReportFilter
}

// ReportFile is a stored, downloadable artefact.
type ReportFile struct {
	ReportID    string    `json:"report_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PeriodData is one labelled period of lecturer summaries for the
// period-on-period comparison export.
type PeriodData struct {
	Label     string
	DateFrom  string
	DateTo    string
	Summaries []models.LecturerSummary
}

// ValidateReportRequest enumerates every missing field at once so the
// caller can fix the payload in one round trip.
func ValidateReportRequest(req ReportRequest) []string {
	errs := make([]string, 0)
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "title is required")
	}
	if req.DateFrom == "" || req.DateTo == "" {
		errs = append(errs, "dateRange with from and to is required")
	} else {
		if !IsValidDate(req.DateFrom) {
			errs = append(errs, "date_from must be YYYY-MM-DD")
		}
		if !IsValidDate(req.DateTo) {
			errs = append(errs, "date_to must be YYYY-MM-DD")
		}
	}
	return errs
}

// ReportService renders CSV and PDF exports, stores them on disk and
// hands out signed download URLs. A report either renders completely or
// fails with an error; there are no partial artefacts.
type ReportService struct {
	evaluations evaluationRepository
	lecturers   lecturerRepository
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	storage     *storage.LocalStorage
	signer      *storage.SignedURLSigner
	baseURL     string
	logger      *zap.Logger
	now         func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(evaluations evaluationRepository, lecturers lecturerRepository, store *storage.LocalStorage, signer *storage.SignedURLSigner, baseURL string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		evaluations: evaluations,
		lecturers:   lecturers,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		storage:     store,
		signer:      signer,
		baseURL:     strings.TrimRight(baseURL, "/"),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }

// BuildEvaluationDataset renders the raw export: one row per record,
// fifteen columns, with the per-record mean and grade derived inline.
func BuildEvaluationDataset(evaluations []models.Evaluation, nameByID map[string]string) export.Dataset {
	headers := []string{
		"Nama Penilai", "Umur", "Alamat", "Tarikh Penilaian", "Penceramah",
		"Minggu", "Jenis Kuliah", "Tajuk (Q1)", "Ilmu (Q2)", "Penyampaian (Q3)",
		"Masa (Q4)", "Purata", "Gred", "Komen Penceramah", "Cadangan Masjid",
	}

	rows := make([][]string, 0, len(evaluations))
	for _, e := range evaluations {
		avg := EvaluationAverage(e)

		lecturerName := "Unknown"
		if e.LecturerID != nil {
			if name, ok := nameByID[*e.LecturerID]; ok && name != "" {
				lecturerName = name
			}
		}

		week, lectureType := "", ""
		if e.Session != nil {
			week = strconv.Itoa(e.Session.Minggu)
			lectureType = e.Session.JenisKuliah
		}

		komen, cadangan := "", ""
		if e.KomenPenceramah != nil {
			komen = *e.KomenPenceramah
		}
		if e.CadanganMasjid != nil {
			cadangan = *e.CadanganMasjid
		}

		rows = append(rows, []string{
			e.NamaPenilai,
			strconv.Itoa(e.Umur),
			e.Alamat,
			e.TarikhPenilaian,
			lecturerName,
			week,
			lectureType,
			strconv.Itoa(e.Q1Tajuk),
			strconv.Itoa(e.Q2Ilmu),
			strconv.Itoa(e.Q3Penyampaian),
			strconv.Itoa(e.Q4Masa),
			f2(avg),
			Grade(avg),
			komen,
			cadangan,
		})
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

// BuildLecturerSummaryDataset renders the per-lecturer summary export
// with Malay trend and risk labels.
func BuildLecturerSummaryDataset(summaries []models.LecturerSummary) export.Dataset {
	headers := []string{
		"Penceramah", "Tajuk (Q1)", "Ilmu (Q2)", "Penyampaian (Q3)", "Masa (Q4)",
		"Purata Keseluruhan", "Gred", "Bil. Penilaian", "Trend", "Tahap Risiko",
	}

	rows := make([][]string, 0, len(summaries))
	for _, l := range summaries {
		trendLabel := "Stabil"
		switch l.Trend {
		case "up":
			trendLabel = "Meningkat"
		case "down":
			trendLabel = "Menurun"
		}
		riskLabel := "Rendah"
		switch l.RiskLevel {
		case models.RiskHigh:
			riskLabel = "Tinggi"
		case models.RiskMedium:
			riskLabel = "Sederhana"
		}

		rows = append(rows, []string{
			l.LecturerName,
			f2(l.AvgQ1),
			f2(l.AvgQ2),
			f2(l.AvgQ3),
			f2(l.AvgQ4),
			f2(l.AvgOverall),
			Grade(l.AvgOverall),
			strconv.Itoa(l.TotalEvaluations),
			trendLabel,
			riskLabel,
		})
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

// BuildExecutiveSummaryLines renders the free-form executive summary:
// section titles, key/value pairs and numbered finding lists.
func BuildExecutiveSummaryLines(summary models.ReportSummary) [][]string {
	topPerformer := summary.TopPerformer
	if topPerformer == "" {
		topPerformer = "-"
	}
	needsAttention := summary.NeedsAttention
	if needsAttention == "" {
		needsAttention = "-"
	}

	lines := [][]string{
		{"LAPORAN RINGKASAN EKSEKUTIF"},
		{},
		{"Tempoh", summary.Period},
		{"Jumlah Penilaian", strconv.Itoa(summary.TotalEvaluations)},
		{"Jumlah Penceramah", strconv.Itoa(summary.TotalLecturers)},
		{"Purata Skor Keseluruhan", f2(summary.AverageScore)},
		{"Gred Keseluruhan", Grade(summary.AverageScore)},
		{},
		{"PRESTASI"},
		{"Prestasi Terbaik", topPerformer},
		{"Perlu Perhatian", needsAttention},
		{},
		{"KEKUATAN"},
	}
	for i, s := range summary.Strengths {
		lines = append(lines, []string{strconv.Itoa(i + 1), s})
	}
	lines = append(lines, []string{}, []string{"BIDANG PENAMBAHBAIKAN"})
	for i, s := range summary.Improvements {
		lines = append(lines, []string{strconv.Itoa(i + 1), s})
	}
	return lines
}

// BuildComparisonDataset renders the period-on-period export. Lecturers
// absent from the previous period show as "Baru" with no change value.
func BuildComparisonDataset(current, previous PeriodData) export.Dataset {
	headers := []string{
		"Penceramah",
		fmt.Sprintf("Purata (%s)", current.Label),
		fmt.Sprintf("Purata (%s)", previous.Label),
		"Perubahan",
		"Trend",
	}

	prevScores := make(map[string]float64, len(previous.Summaries))
	for _, l := range previous.Summaries {
		prevScores[l.LecturerName] = l.AvgOverall
	}

	rows := make([][]string, 0, len(current.Summaries))
	for _, l := range current.Summaries {
		prevScore, known := prevScores[l.LecturerName]

		prevStr, changeStr := "-", "Baru"
		change := 0.0
		if known {
			change = l.AvgOverall - prevScore
			prevStr = f2(prevScore)
			if change >= 0 {
				changeStr = "+" + f2(change)
			} else {
				changeStr = f2(change)
			}
		}

		trend := "Stabil"
		if change > 0.1 {
			trend = "Meningkat"
		} else if change < -0.1 {
			trend = "Menurun"
		}

		rows = append(rows, []string{l.LecturerName, f2(l.AvgOverall), prevStr, changeStr, trend})
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

// BuildLecturerSummaries derives the summary projection from a record
// set, including per-lecturer recommendation rate and risk level.
func BuildLecturerSummaries(evaluations []models.Evaluation, nameByID map[string]string) []models.LecturerSummary {
	scores := CalculateLecturerScores(evaluations, nameByID)

	yesByLecturer := make(map[string]int)
	for _, e := range evaluations {
		if e.LecturerID != nil && e.Recommended() {
			yesByLecturer[*e.LecturerID]++
		}
	}

	summaries := make([]models.LecturerSummary, 0, len(scores))
	for _, sc := range scores {
		recPercent := 0.0
		if sc.TotalEvaluations > 0 {
			recPercent = float64(yesByLecturer[sc.LecturerID]) / float64(sc.TotalEvaluations) * 100
		}
		summaries = append(summaries, models.LecturerSummary{
			LecturerName:             sc.LecturerName,
			AvgQ1:                    sc.AvgQ1,
			AvgQ2:                    sc.AvgQ2,
			AvgQ3:                    sc.AvgQ3,
			AvgQ4:                    sc.AvgQ4,
			AvgOverall:               sc.AvgOverall,
			RecommendationYesPercent: recPercent,
			TotalEvaluations:         sc.TotalEvaluations,
		})
	}

	for i, risk := range AssessRisks(summaries) {
		summaries[i].RiskLevel = risk.RiskLevel
	}
	return summaries
}

func (s *ReportService) loadScoped(ctx context.Context, req ReportRequest) ([]models.Evaluation, map[string]string, error) {
	evaluations, err := s.evaluations.ListAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}
	lecturers, err := s.lecturers.List(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturers")
	}

	nameByID := make(map[string]string, len(lecturers))
	for _, l := range lecturers {
		nameByID[l.ID] = l.Nama
	}

	scoped := make([]models.Evaluation, 0, len(evaluations))
	for _, e := range FilterEvaluations(evaluations, req.Filter) {
		if req.DateFrom != "" && e.TarikhPenilaian < req.DateFrom {
			continue
		}
		if req.DateTo != "" && e.TarikhPenilaian > req.DateTo {
			continue
		}
		scoped = append(scoped, e)
	}
	return scoped, nameByID, nil
}

// ExportEvaluationsCSV renders and stores the raw evaluation export.
func (s *ReportService) ExportEvaluationsCSV(ctx context.Context, req ReportRequest) (*ReportFile, error) {
	if errs := ValidateReportRequest(req); len(errs) > 0 {
		return nil, appErrors.Clone(appErrors.ErrReportPayload, strings.Join(errs, ", "))
	}
	evaluations, nameByID, err := s.loadScoped(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := s.csv.Render(BuildEvaluationDataset(evaluations, nameByID))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return s.store(data, "penilaian", "csv", "text/csv")
}

// ExportLecturerSummaryCSV renders and stores the per-lecturer summary.
func (s *ReportService) ExportLecturerSummaryCSV(ctx context.Context, req ReportRequest) (*ReportFile, error) {
	if errs := ValidateReportRequest(req); len(errs) > 0 {
		return nil, appErrors.Clone(appErrors.ErrReportPayload, strings.Join(errs, ", "))
	}
	evaluations, nameByID, err := s.loadScoped(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := s.csv.Render(BuildLecturerSummaryDataset(BuildLecturerSummaries(evaluations, nameByID)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return s.store(data, "ringkasan-penceramah", "csv", "text/csv")
}

// ExportExecutiveSummaryCSV renders and stores the executive summary.
func (s *ReportService) ExportExecutiveSummaryCSV(ctx context.Context, req ReportRequest) (*ReportFile, error) {
	if errs := ValidateReportRequest(req); len(errs) > 0 {
		return nil, appErrors.Clone(appErrors.ErrReportPayload, strings.Join(errs, ", "))
	}
	evaluations, nameByID, err := s.loadScoped(ctx, req)
	if err != nil {
		return nil, err
	}

	period := fmt.Sprintf("%s - %s", req.DateFrom, req.DateTo)
	analytics := GenerateAnalytics(evaluations, BuildLecturerSummaries(evaluations, nameByID), period)

	data, err := s.csv.RenderLines(BuildExecutiveSummaryLines(analytics.Summary))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return s.store(data, "ringkasan-eksekutif", "csv", "text/csv")
}

// ExportComparisonCSV renders the period-on-period comparison between
// the requested range and the preceding range of equal length.
func (s *ReportService) ExportComparisonCSV(ctx context.Context, req ReportRequest) (*ReportFile, error) {
	if errs := ValidateReportRequest(req); len(errs) > 0 {
		return nil, appErrors.Clone(appErrors.ErrReportPayload, strings.Join(errs, ", "))
	}

	prevFrom, prevTo, err := precedingRange(req.DateFrom, req.DateTo)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrReportPayload, err.Error())
	}

	current, nameByID, err := s.loadScoped(ctx, req)
	if err != nil {
		return nil, err
	}
	prevReq := req
	prevReq.DateFrom, prevReq.DateTo = prevFrom, prevTo
	previous, _, err := s.loadScoped(ctx, prevReq)
	if err != nil {
		return nil, err
	}

	dataset := BuildComparisonDataset(
		PeriodData{
			Label:     fmt.Sprintf("%s - %s", req.DateFrom, req.DateTo),
			Summaries: BuildLecturerSummaries(current, nameByID),
		},
		PeriodData{
			Label:     fmt.Sprintf("%s - %s", prevFrom, prevTo),
			Summaries: BuildLecturerSummaries(previous, nameByID),
		},
	)

	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return s.store(data, "perbandingan", "csv", "text/csv")
}

// ExportPDF renders the full report document. Validation failures and
// render errors both abort with no stored artefact.
func (s *ReportService) ExportPDF(ctx context.Context, req ReportRequest) (*ReportFile, error) {
	if errs := ValidateReportRequest(req); len(errs) > 0 {
		return nil, appErrors.Clone(appErrors.ErrReportPayload, strings.Join(errs, ", "))
	}
	evaluations, nameByID, err := s.loadScoped(ctx, req)
	if err != nil {
		return nil, err
	}

	summaries := BuildLecturerSummaries(evaluations, nameByID)
	period := fmt.Sprintf("%s - %s", req.DateFrom, req.DateTo)
	analytics := GenerateAnalytics(evaluations, summaries, period)
	stats := CalculateRecommendationStats(evaluations)

	doc := export.ReportDocument{
		Heading:     reportHeading,
		Title:       req.Title,
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		GeneratedAt: s.now().Format("02/01/2006"),
		Summary: export.ReportSummaryBlock{
			TotalEvaluations:  len(evaluations),
			AverageScore:      analytics.Summary.AverageScore,
			RecommendationYes: stats.Ya,
			RecommendationNo:  stats.Tidak,
		},
		Insights: &export.ReportInsightsBlock{
			KeyFindings:     analytics.Insights.KeyFindings,
			Recommendations: analytics.Insights.Recommendations,
		},
	}
	if analytics.Insights.TopPerformer != nil {
		doc.Summary.TopPerformer = fmt.Sprintf("%s (%.2f)", analytics.Insights.TopPerformer.Name, analytics.Insights.TopPerformer.Score)
	}
	if analytics.Insights.NeedsAttention != nil {
		doc.Summary.NeedsAttention = fmt.Sprintf("%s (%.2f)", analytics.Insights.NeedsAttention.Name, analytics.Insights.NeedsAttention.Score)
	}

	for _, l := range summaries {
		status := "Baik"
		switch l.RiskLevel {
		case models.RiskHigh:
			status = "Perhatian"
		case models.RiskMedium:
			status = "Sederhana"
		}
		doc.Scores = append(doc.Scores, export.ScoreRow{
			LecturerName: l.LecturerName,
			AvgQ1:        l.AvgQ1,
			AvgQ2:        l.AvgQ2,
			AvgQ3:        l.AvgQ3,
			AvgQ4:        l.AvgQ4,
			AvgOverall:   l.AvgOverall,
			Count:        l.TotalEvaluations,
			StatusLabel:  status,
		})
	}

	for _, e := range evaluations {
		lecturerName := "Unknown"
		if e.LecturerID != nil {
			if name, ok := nameByID[*e.LecturerID]; ok && name != "" {
				lecturerName = name
			}
		}
		week, lectureType := "", ""
		if e.Session != nil {
			week = fmt.Sprintf("M%d", e.Session.Minggu)
			lectureType = e.Session.JenisKuliah
		}
		doc.Evaluations = append(doc.Evaluations, export.EvaluationRow{
			EvaluatorName: e.NamaPenilai,
			LecturerName:  lecturerName,
			Date:          e.TarikhPenilaian,
			Week:          week,
			LectureType:   lectureType,
			Score:         EvaluationAverage(e),
			Recommended:   e.Recommended(),
		})
	}

	data, err := s.pdf.Render(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return s.store(data, "laporan-penilaian", "pdf", "application/pdf")
}

// Open resolves a signed download token back to the stored file.
func (s *ReportService) Open(token string) (string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download token")
	}
	return relPath, nil
}

// CleanupExpired removes stored artefacts older than the TTL.
func (s *ReportService) CleanupExpired(ttl time.Duration) (int, error) {
	deleted, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clean up reports")
	}
	if len(deleted) > 0 {
		s.logger.Info("expired reports removed", zap.Int("count", len(deleted)))
	}
	return len(deleted), nil
}

func (s *ReportService) store(data []byte, prefix, ext, contentType string) (*ReportFile, error) {
	reportID := uuid.NewString()
	filename := fmt.Sprintf("%s-%s-%s.%s", prefix, s.now().Format("20060102"), reportID[:8], ext)

	relPath, err := s.storage.Save(filename, data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	token, expiresAt, err := s.signer.Generate(reportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	s.logger.Info("report generated",
		zap.String("report_id", reportID),
		zap.String("filename", filename),
		zap.Int("bytes", len(data)))

	return &ReportFile{
		ReportID:    reportID,
		Filename:    filename,
		ContentType: contentType,
		DownloadURL: fmt.Sprintf("%s/api/v1/reports/download/%s", s.baseURL, token),
		ExpiresAt:   expiresAt,
	}, nil
}

// precedingRange returns the range of equal length immediately before
// [from, to].
func precedingRange(from, to string) (string, string, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return "", "", fmt.Errorf("invalid date_from")
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return "", "", fmt.Errorf("invalid date_to")
	}
	if end.Before(start) {
		return "", "", fmt.Errorf("date_to precedes date_from")
	}
	days := int(end.Sub(start).Hours()/24) + 1
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(days - 1))
	return prevStart.Format("2006-01-02"), prevEnd.Format("2006-01-02"), nil
}
