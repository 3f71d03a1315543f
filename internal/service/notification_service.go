package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/pkg/config"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/jobs"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/mailer"
)

// EvaluationSummary is the condensed view of one submitted evaluation
// used for the admin notification email.
type EvaluationSummary struct {
	EvaluatorName  string  `json:"evaluator_name"`
	LecturerName   string  `json:"lecturer_name"`
	Date           string  `json:"date"`
	OverallRating  float64 `json:"overall_rating"`
	Recommendation bool    `json:"recommendation"`
}

// EmailContent is the rendered notification.
type EmailContent struct {
	Subject string
	Body    string
	HTML    string
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail does a shape check on an address, not a deliverability
// check.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateEvaluationSummary reports every missing or out-of-range field.
func ValidateEvaluationSummary(summary EvaluationSummary) (bool, []string) {
	errs := make([]string, 0)
	if summary.EvaluatorName == "" {
		errs = append(errs, "evaluatorName is required")
	}
	if summary.LecturerName == "" {
		errs = append(errs, "lecturerName is required")
	}
	if summary.Date == "" {
		errs = append(errs, "date is required")
	}
	if summary.OverallRating < 1 || summary.OverallRating > 4 {
		errs = append(errs, "overallRating must be a number between 1 and 4")
	}
	return len(errs) == 0, errs
}

var emailHTMLEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeHTML(text string) string {
	return emailHTMLEscaper.Replace(text)
}

// FormatEmailContent renders the notification subject, plain body and
// HTML body. User-supplied values are HTML-escaped in the HTML variant
// only; the plain body carries them verbatim.
func FormatEmailContent(summary EvaluationSummary) EmailContent {
	recommendation := "Tidak"
	recommendationClass := "no"
	if summary.Recommendation {
		recommendation = "Ya"
		recommendationClass = "yes"
	}

	subject := fmt.Sprintf("Penilaian Baru: %s - %s", summary.LecturerName, summary.Date)

	body := strings.TrimSpace(fmt.Sprintf(`
Penilaian Baru Diterima

Maklumat Penilaian:
- Penilai: %s
- Penceramah: %s
- Tarikh: %s
- Purata Skor: %.2f/4.00
- Cadangan Diteruskan: %s

---
Sistem Penilaian Kuliah
Masjid Al-Muttaqin Wangsa Melawati
`, summary.EvaluatorName, summary.LecturerName, summary.Date, summary.OverallRating, recommendation))

	html := strings.TrimSpace(fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background: #1a5f2a; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
		.content { background: #f9f9f9; padding: 20px; border: 1px solid #ddd; }
		.info-row { display: flex; padding: 10px 0; border-bottom: 1px solid #eee; }
		.label { font-weight: bold; width: 150px; color: #555; }
		.value { flex: 1; }
		.score { font-size: 1.2em; color: #1a5f2a; font-weight: bold; }
		.recommendation { padding: 5px 10px; border-radius: 4px; display: inline-block; }
		.recommendation.yes { background: #d4edda; color: #155724; }
		.recommendation.no { background: #f8d7da; color: #721c24; }
		.footer { text-align: center; padding: 15px; color: #666; font-size: 0.9em; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h2>Penilaian Baru Diterima</h2>
		</div>
		<div class="content">
			<div class="info-row">
				<span class="label">Penilai:</span>
				<span class="value">%s</span>
			</div>
			<div class="info-row">
				<span class="label">Penceramah:</span>
				<span class="value">%s</span>
			</div>
			<div class="info-row">
				<span class="label">Tarikh:</span>
				<span class="value">%s</span>
			</div>
			<div class="info-row">
				<span class="label">Purata Skor:</span>
				<span class="value score">%.2f/4.00</span>
			</div>
			<div class="info-row">
				<span class="label">Cadangan Diteruskan:</span>
				<span class="value">
					<span class="recommendation %s">%s</span>
				</span>
			</div>
		</div>
		<div class="footer">
			Sistem Penilaian Kuliah<br>
			Masjid Al-Muttaqin Wangsa Melawati
		</div>
	</div>
</body>
</html>
`, escapeHTML(summary.EvaluatorName), escapeHTML(summary.LecturerName), escapeHTML(summary.Date),
		summary.OverallRating, recommendationClass, recommendation))

	return EmailContent{Subject: subject, Body: body, HTML: html}
}

// NotificationService dispatches admin notification emails through the
// background queue. Delivery failure never reaches the submission flow;
// the queue retries and eventually logs and drops.
type NotificationService struct {
	mailer  mailer.Mailer
	queue   *jobs.Queue
	metrics *MetricsService
	cfg     config.EmailConfig
	logger  *zap.Logger
}

// NewNotificationService wires the mailer behind a job queue. Call
// Start before accepting submissions and Stop on shutdown.
func NewNotificationService(m mailer.Mailer, metrics *MetricsService, cfg config.EmailConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{mailer: m, metrics: metrics, cfg: cfg, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.handleJob, jobs.QueueConfig{
		Workers: cfg.QueueWorkers,
		Logger:  logger,
	})
	return s
}

// Start launches the queue workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Enabled reports whether notifications will actually be delivered.
func (s *NotificationService) Enabled() bool {
	return s.cfg.Enabled && len(s.cfg.AdminEmails) > 0
}

// NotifyEvaluation queues a notification for a newly submitted
// evaluation. Any problem, from a malformed summary to a full queue, is
// logged and swallowed.
func (s *NotificationService) NotifyEvaluation(summary EvaluationSummary) {
	valid, errs := ValidateEvaluationSummary(summary)
	if !valid {
		s.logger.Warn("notification summary invalid, skipping",
			zap.Strings("errors", errs))
		return
	}
	if !s.Enabled() {
		return
	}

	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    "evaluation_notification",
		Payload: summary,
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Error("failed to queue notification", zap.Error(err))
		return
	}
	if s.metrics != nil {
		s.metrics.RecordEmailQueued()
	}
}

func (s *NotificationService) handleJob(ctx context.Context, job jobs.Job) error {
	summary, ok := job.Payload.(EvaluationSummary)
	if !ok {
		s.logger.Error("notification job has unexpected payload", zap.String("job_id", job.ID))
		return nil
	}

	content := FormatEmailContent(summary)
	msg := mailer.Message{
		To:       s.recipients(),
		Subject:  content.Subject,
		TextBody: content.Body,
		HTMLBody: content.HTML,
	}
	if !msg.HasRecipients() {
		return nil
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		if job.Attempt >= 2 && s.metrics != nil {
			s.metrics.RecordEmailFailed()
		}
		return err
	}

	s.logger.Info("notification delivered",
		zap.String("job_id", job.ID),
		zap.Int("recipients", len(msg.To)))
	return nil
}

func (s *NotificationService) recipients() []string {
	valid := make([]string, 0, len(s.cfg.AdminEmails))
	for _, addr := range s.cfg.AdminEmails {
		if IsValidEmail(addr) {
			valid = append(valid, addr)
		}
	}
	return valid
}
