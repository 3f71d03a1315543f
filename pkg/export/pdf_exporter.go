package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// ReportSummaryBlock carries the executive numbers printed in the summary box.
type ReportSummaryBlock struct {
	TotalEvaluations  int
	AverageScore      float64
	RecommendationYes int
	RecommendationNo  int
	ScoreChangeLabel  string
	TopPerformer      string
	NeedsAttention    string
}

// ReportInsightsBlock carries the qualitative findings section.
type ReportInsightsBlock struct {
	KeyFindings     []string
	Recommendations []string
}

// ScoreRow is one line of the per-lecturer score table.
type ScoreRow struct {
	LecturerName string
	AvgQ1        float64
	AvgQ2        float64
	AvgQ3        float64
	AvgQ4        float64
	AvgOverall   float64
	Count        int
	StatusLabel  string
}

// EvaluationRow is one line of the raw evaluation table.
type EvaluationRow struct {
	EvaluatorName string
	LecturerName  string
	Date          string
	Week          string
	LectureType   string
	Score         float64
	Recommended   bool
}

// ReportDocument is the full payload for a rendered PDF report.
type ReportDocument struct {
	Heading     string
	Title       string
	DateFrom    string
	DateTo      string
	GeneratedAt string
	Summary     ReportSummaryBlock
	Insights    *ReportInsightsBlock
	Scores      []ScoreRow
	Evaluations []EvaluationRow
}

// Raw evaluation rows beyond this count are summarised as a trailing note.
const maxEvaluationRows = 20

// PDFExporter renders evaluation reports into PDF bytes.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the report document. Output is deterministic for
// identical input: same text, same layout, same page count.
func (e *PDFExporter) Render(doc ReportDocument) ([]byte, error) {
	if doc.Title == "" {
		return nil, fmt.Errorf("pdf requires a title")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 15, 14)
	pdf.AddPage()

	e.renderHeader(pdf, doc)
	y := e.renderSummaryBox(pdf, doc.Summary)
	if doc.Insights != nil && (len(doc.Insights.KeyFindings) > 0 || len(doc.Insights.Recommendations) > 0) {
		y = e.renderInsights(pdf, *doc.Insights, y)
	}
	if len(doc.Scores) > 0 {
		y = e.renderScoreTable(pdf, doc.Scores, y)
	}
	if len(doc.Evaluations) > 0 {
		if y > 200 {
			pdf.AddPage()
			y = pdf.GetY()
		}
		e.renderEvaluationTable(pdf, doc.Evaluations, y)
	}
	e.renderFooter(pdf, doc.GeneratedAt)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) renderHeader(pdf *gofpdf.Fpdf, doc ReportDocument) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, doc.Heading, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, doc.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Tempoh: %s - %s", doc.DateFrom, doc.DateTo), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (e *PDFExporter) renderSummaryBox(pdf *gofpdf.Fpdf, s ReportSummaryBlock) float64 {
	top := pdf.GetY()
	pdf.SetFillColor(240, 247, 241)
	pdf.Rect(14, top, 182, 45, "F")

	pdf.SetXY(20, top+3)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Ringkasan Eksekutif", "", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	totalRec := s.RecommendationYes + s.RecommendationNo
	yesPct, noPct := "0", "0"
	if totalRec > 0 {
		yesPct = fmt.Sprintf("%.1f", float64(s.RecommendationYes)/float64(totalRec)*100)
		noPct = fmt.Sprintf("%.1f", float64(s.RecommendationNo)/float64(totalRec)*100)
	}

	pdf.SetXY(20, top+12)
	pdf.CellFormat(90, 6, fmt.Sprintf("Jumlah Penilaian: %d", s.TotalEvaluations), "", 0, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Purata Skor: %.2f/4.00", s.AverageScore), "", 1, "", false, 0, "")

	pdf.SetX(20)
	pdf.CellFormat(90, 6, fmt.Sprintf("Cadangan Ya: %d (%s%%)", s.RecommendationYes, yesPct), "", 0, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Cadangan Tidak: %d (%s%%)", s.RecommendationNo, noPct), "", 1, "", false, 0, "")

	if s.ScoreChangeLabel != "" {
		pdf.SetX(20)
		pdf.CellFormat(0, 6, fmt.Sprintf("Perubahan Skor: %s berbanding tempoh sebelum", s.ScoreChangeLabel), "", 1, "", false, 0, "")
	}

	pdf.SetX(20)
	if s.TopPerformer != "" {
		pdf.CellFormat(90, 6, fmt.Sprintf("Prestasi Terbaik: %s", s.TopPerformer), "", 0, "", false, 0, "")
	}
	if s.NeedsAttention != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Perlu Perhatian: %s", s.NeedsAttention), "", 0, "", false, 0, "")
	}
	pdf.Ln(-1)

	return top + 52
}

func (e *PDFExporter) renderInsights(pdf *gofpdf.Fpdf, in ReportInsightsBlock, y float64) float64 {
	pdf.SetFillColor(255, 250, 240)
	pdf.Rect(14, y, 182, 40, "F")

	pdf.SetXY(20, y+3)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Penemuan & Cadangan", "", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	line := y + 12
	for _, finding := range firstN(in.KeyFindings, 2) {
		pdf.SetXY(20, line)
		pdf.CellFormat(0, 5, "- "+finding, "", 1, "", false, 0, "")
		line += 6
	}
	if len(in.Recommendations) > 0 {
		pdf.SetXY(20, line)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(0, 5, "Cadangan:", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		line += 6
		for i, rec := range firstN(in.Recommendations, 2) {
			pdf.SetXY(25, line)
			pdf.CellFormat(0, 5, fmt.Sprintf("%d. %s", i+1, rec), "", 1, "", false, 0, "")
			line += 6
		}
	}

	return y + 48
}

func (e *PDFExporter) renderScoreTable(pdf *gofpdf.Fpdf, rows []ScoreRow, y float64) float64 {
	pdf.SetXY(14, y)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Skor Penceramah", "", 1, "", false, 0, "")

	widths := []float64{40, 16, 16, 16, 16, 18, 14, 28}
	headers := []string{"Penceramah", "Q1", "Q2", "Q3", "Q4", "Purata", "Bil.", "Status"}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(26, 95, 42)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		cells := []string{
			row.LecturerName,
			fmt.Sprintf("%.2f", row.AvgQ1),
			fmt.Sprintf("%.2f", row.AvgQ2),
			fmt.Sprintf("%.2f", row.AvgQ3),
			fmt.Sprintf("%.2f", row.AvgQ4),
			fmt.Sprintf("%.2f", row.AvgOverall),
			fmt.Sprintf("%d", row.Count),
			row.StatusLabel,
		}
		for i, cell := range cells {
			align := "C"
			if i == 0 {
				align = "L"
			}
			// Overall average gets colour emphasis at the band edges.
			if i == 5 {
				switch {
				case row.AvgOverall < 2.5:
					pdf.SetTextColor(220, 53, 69)
				case row.AvgOverall >= 3.5:
					pdf.SetTextColor(26, 95, 42)
				}
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(-1)
	}

	return pdf.GetY() + 10
}

func (e *PDFExporter) renderEvaluationTable(pdf *gofpdf.Fpdf, rows []EvaluationRow, y float64) {
	pdf.SetXY(14, y)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Senarai Penilaian", "", 1, "", false, 0, "")

	widths := []float64{30, 30, 22, 15, 20, 18, 20}
	headers := []string{"Penilai", "Penceramah", "Tarikh", "Minggu", "Jenis", "Skor", "Cadangan"}

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(26, 95, 42)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	shown := rows
	if len(shown) > maxEvaluationRows {
		shown = shown[:maxEvaluationRows]
	}
	for _, row := range shown {
		rec := "Tidak"
		if row.Recommended {
			rec = "Ya"
		}
		cells := []string{
			truncate(row.EvaluatorName, 15),
			truncate(row.LecturerName, 15),
			row.Date,
			row.Week,
			row.LectureType,
			fmt.Sprintf("%.2f", row.Score),
			rec,
		}
		for i, cell := range cells {
			align := "L"
			if i >= 3 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 5, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(rows) > maxEvaluationRows {
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("... dan %d lagi rekod", len(rows)-maxEvaluationRows), "", 1, "", false, 0, "")
	}
}

func (e *PDFExporter) renderFooter(pdf *gofpdf.Fpdf, generatedAt string) {
	pageCount := pdf.PageCount()
	for i := 1; i <= pageCount; i++ {
		pdf.SetPage(i)
		pdf.SetXY(14, 283)
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Dijana pada: %s | Halaman %d / %d", generatedAt, i, pageCount), "", 0, "C", false, 0, "")
	}
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
