package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
)

type evaluationRepository interface {
	List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, int, error)
	ListAll(ctx context.Context) ([]models.Evaluation, error)
	FindByID(ctx context.Context, id string) (*models.Evaluation, error)
	CreateBatch(ctx context.Context, evaluations []*models.Evaluation) error
	Delete(ctx context.Context, id string) error
}

// LecturerRating is one lecturer's block of the submission payload.
type LecturerRating struct {
	LecturerID       string                   `json:"lecturer_id"`
	SessionID        *string                  `json:"session_id"`
	Ratings          models.EvaluationRatings `json:"ratings"`
	CadanganTeruskan *bool                    `json:"cadangan_teruskan"`
}

// SubmitEvaluationRequest is the public form payload. One record is
// persisted per rated lecturer, all sharing the evaluator block and the
// free-text comments.
type SubmitEvaluationRequest struct {
	EvaluatorInfo   models.EvaluatorInfo `json:"evaluator_info"`
	Lecturers       []LecturerRating     `json:"lecturers"`
	KomenPenceramah string               `json:"komen_penceramah"`
	CadanganMasjid  string               `json:"cadangan_masjid"`
}

// SubmitResult reports what was persisted.
type SubmitResult struct {
	Created int      `json:"created"`
	IDs     []string `json:"ids"`
}

// EvaluationService owns the submission flow and the admin read side.
type EvaluationService struct {
	repo          evaluationRepository
	lecturers     lecturerRepository
	cache         *CacheService
	notifications *NotificationService
	metrics       *MetricsService
	logger        *zap.Logger
}

// NewEvaluationService constructs an EvaluationService.
func NewEvaluationService(repo evaluationRepository, lecturers lecturerRepository, cache *CacheService, notifications *NotificationService, metrics *MetricsService, logger *zap.Logger) *EvaluationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		repo:          repo,
		lecturers:     lecturers,
		cache:         cache,
		notifications: notifications,
		metrics:       metrics,
		logger:        logger,
	}
}

// Validate runs the full form validation without persisting anything,
// so the client can surface errors before submission.
func (s *EvaluationService) Validate(req SubmitEvaluationRequest) models.FormValidation {
	result := ValidateEvaluatorInfo(req.EvaluatorInfo)

	if len(req.Lecturers) == 0 {
		result.Errors = append(result.Errors, models.ValidationError{
			Field: "lecturers", Message: "Sila pilih sekurang-kurangnya satu penceramah",
		})
	}
	for _, lr := range req.Lecturers {
		if lr.LecturerID == "" {
			result.Errors = append(result.Errors, models.ValidationError{
				Field: "lecturers", Message: "Penceramah tidak sah",
			})
			continue
		}
		if !IsRatingsComplete(lr.Ratings) {
			result.Errors = append(result.Errors, models.ValidationError{
				Field:   fmt.Sprintf("ratings.%s", lr.LecturerID),
				Message: "Sila lengkapkan semua penilaian",
			})
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// Submit persists the form, then fires the admin notification for each
// record. Incomplete lecturer blocks are dropped and only the complete
// ones persist; the submission fails only when the evaluator block is
// invalid or no block is complete. Free-text fields are sanitized at
// write time. Notification delivery is fire-and-forget.
func (s *EvaluationService) Submit(ctx context.Context, req SubmitEvaluationRequest) (*SubmitResult, error) {
	validation := ValidateEvaluatorInfo(req.EvaluatorInfo)
	if !validation.IsValid {
		return nil, appErrors.Wrap(fmt.Errorf("%d field errors", len(validation.Errors)),
			appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Maklumat penilai tidak lengkap")
	}

	complete := make([]LecturerRating, 0, len(req.Lecturers))
	for _, lr := range req.Lecturers {
		if lr.LecturerID == "" || !IsRatingsComplete(lr.Ratings) {
			continue
		}
		complete = append(complete, lr)
	}
	if len(complete) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Sila lengkapkan sekurang-kurangnya satu penilaian penceramah")
	}

	nama := SanitizeString(req.EvaluatorInfo.Nama)
	alamat := SanitizeString(req.EvaluatorInfo.Alamat)

	records := make([]*models.Evaluation, 0, len(complete))
	for _, lr := range complete {
		lecturerID := lr.LecturerID
		e := &models.Evaluation{
			NamaPenilai:      nama,
			Umur:             req.EvaluatorInfo.Umur,
			Alamat:           alamat,
			TarikhPenilaian:  req.EvaluatorInfo.Tarikh,
			Q1Tajuk:          *lr.Ratings.Q1Tajuk,
			Q2Ilmu:           *lr.Ratings.Q2Ilmu,
			Q3Penyampaian:    *lr.Ratings.Q3Penyampaian,
			Q4Masa:           *lr.Ratings.Q4Masa,
			CadanganTeruskan: lr.CadanganTeruskan,
			LecturerID:       &lecturerID,
			SessionID:        lr.SessionID,
		}
		if req.KomenPenceramah != "" {
			komen := SanitizeString(req.KomenPenceramah)
			e.KomenPenceramah = &komen
		}
		if req.CadanganMasjid != "" {
			cadangan := SanitizeString(req.CadanganMasjid)
			e.CadanganMasjid = &cadangan
		}
		records = append(records, e)
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save evaluation")
	}

	if err := s.cache.Invalidate(ctx, CachePatternDashboard); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}

	ids := make([]string, 0, len(records))
	for _, e := range records {
		ids = append(ids, e.ID)
		if s.metrics != nil {
			s.metrics.RecordEvaluationSubmitted()
		}
		s.notify(ctx, e)
	}

	s.logger.Info("evaluation submitted",
		zap.Int("records", len(records)),
		zap.String("tarikh", req.EvaluatorInfo.Tarikh))

	return &SubmitResult{Created: len(records), IDs: ids}, nil
}

func (s *EvaluationService) notify(ctx context.Context, e *models.Evaluation) {
	if s.notifications == nil || e.LecturerID == nil {
		return
	}
	lecturerName := "Unknown"
	if lecturer, err := s.lecturers.FindByID(ctx, *e.LecturerID); err == nil {
		lecturerName = lecturer.Nama
	}
	s.notifications.NotifyEvaluation(EvaluationSummary{
		EvaluatorName:  e.NamaPenilai,
		LecturerName:   lecturerName,
		Date:           e.TarikhPenilaian,
		OverallRating:  EvaluationAverage(*e),
		Recommendation: e.Recommended(),
	})
}

// List returns a filtered, paginated page of evaluations for the admin
// view, with joined lecturer and session rows.
func (s *EvaluationService) List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, *models.Pagination, error) {
	evaluations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluations")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return evaluations, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one evaluation by id.
func (s *EvaluationService) Get(ctx context.Context, id string) (*models.Evaluation, error) {
	evaluation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}
	return evaluation, nil
}

// Delete removes an evaluation record. Only admins reach this path.
func (s *EvaluationService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete evaluation")
	}
	if err := s.cache.Invalidate(ctx, CachePatternDashboard); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
	s.logger.Info("evaluation deleted", zap.String("evaluation_id", id))
	return nil
}
