package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
)

type sessionRepository interface {
	ListActive(ctx context.Context) ([]models.LectureSession, error)
	List(ctx context.Context) ([]models.LectureSession, error)
	FindByID(ctx context.Context, id string) (*models.LectureSession, error)
	Create(ctx context.Context, session *models.LectureSession) error
	Update(ctx context.Context, session *models.LectureSession) error
	Delete(ctx context.Context, id string) error
}

// SessionRequest is the admin payload for creating or editing a lecture
// session. Bulan and Tahun both zero marks a recurring weekly slot.
type SessionRequest struct {
	Bulan       int     `json:"bulan" validate:"gte=0,lte=12"`
	Tahun       int     `json:"tahun" validate:"gte=0"`
	Minggu      int     `json:"minggu" validate:"required,gte=1,lte=5"`
	Hari        string  `json:"hari" validate:"required,oneof=Isnin Selasa Rabu Khamis Jumaat Sabtu Ahad"`
	JenisKuliah string  `json:"jenis_kuliah" validate:"required,oneof=Subuh Maghrib Jumaat"`
	Aktif       *bool   `json:"aktif"`
	LecturerID  *string `json:"lecturer_id" validate:"omitempty,uuid"`
}

// SessionService manages the lecture schedule. The public view only
// sees active sessions grouped into weeks.
type SessionService struct {
	repo      sessionRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo sessionRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// PublicSchedule returns the active sessions grouped into the five week
// buckets shown on the public page.
func (s *SessionService) PublicSchedule(ctx context.Context) ([]models.WeekGroup, error) {
	sessions, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return GroupSessionsByWeek(sessions), nil
}

// List returns every session, active or not, for the admin view.
func (s *SessionService) List(ctx context.Context) ([]models.LectureSession, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// Get returns a session by id.
func (s *SessionService) Get(ctx context.Context, id string) (*models.LectureSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// Create adds a schedule slot.
func (s *SessionService) Create(ctx context.Context, req SessionRequest) (*models.LectureSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	session := &models.LectureSession{
		Bulan:       req.Bulan,
		Tahun:       req.Tahun,
		Minggu:      req.Minggu,
		Hari:        req.Hari,
		JenisKuliah: req.JenisKuliah,
		Aktif:       true,
		LecturerID:  req.LecturerID,
	}
	if req.Aktif != nil {
		session.Aktif = *req.Aktif
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// Update modifies a schedule slot.
func (s *SessionService) Update(ctx context.Context, id string, req SessionRequest) (*models.LectureSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	session.Bulan = req.Bulan
	session.Tahun = req.Tahun
	session.Minggu = req.Minggu
	session.Hari = req.Hari
	session.JenisKuliah = req.JenisKuliah
	session.LecturerID = req.LecturerID
	if req.Aktif != nil {
		session.Aktif = *req.Aktif
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	return session, nil
}

// Delete removes a schedule slot. Evaluations referencing it keep their
// data with the session reference nulled.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	s.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}
