package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
)

type lecturerRepository interface {
	List(ctx context.Context) ([]models.Lecturer, error)
	FindByID(ctx context.Context, id string) (*models.Lecturer, error)
	Create(ctx context.Context, lecturer *models.Lecturer) error
	Update(ctx context.Context, lecturer *models.Lecturer) error
	Delete(ctx context.Context, id string) error
}

// CreateLecturerRequest is the admin payload for adding a lecturer.
type CreateLecturerRequest struct {
	Nama      string  `json:"nama" validate:"required,max=200"`
	GambarURL *string `json:"gambar_url" validate:"omitempty,url"`
	Deskripsi *string `json:"deskripsi" validate:"omitempty,max=2000"`
	Susunan   int     `json:"susunan" validate:"gte=0"`
}

// UpdateLecturerRequest is the admin payload for editing a lecturer.
type UpdateLecturerRequest struct {
	Nama      string  `json:"nama" validate:"required,max=200"`
	GambarURL *string `json:"gambar_url" validate:"omitempty,url"`
	Deskripsi *string `json:"deskripsi" validate:"omitempty,max=2000"`
	Susunan   int     `json:"susunan" validate:"gte=0"`
}

// LecturerService orchestrates lecturer management. Deletion detaches
// evaluations instead of cascading, which the repository enforces.
type LecturerService struct {
	repo      lecturerRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLecturerService constructs a LecturerService.
func NewLecturerService(repo lecturerRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *LecturerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LecturerService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every lecturer in display order.
func (s *LecturerService) List(ctx context.Context) ([]models.Lecturer, error) {
	lecturers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturers")
	}
	return lecturers, nil
}

// Get returns a lecturer by id.
func (s *LecturerService) Get(ctx context.Context, id string) (*models.Lecturer, error) {
	lecturer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer")
	}
	return lecturer, nil
}

// Create registers a new lecturer.
func (s *LecturerService) Create(ctx context.Context, req CreateLecturerRequest) (*models.Lecturer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecturer payload")
	}

	lecturer := &models.Lecturer{
		Nama:      strings.TrimSpace(req.Nama),
		GambarURL: normalizeOptional(req.GambarURL),
		Deskripsi: normalizeOptional(req.Deskripsi),
		Susunan:   req.Susunan,
	}
	if err := s.repo.Create(ctx, lecturer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lecturer")
	}

	s.invalidateDashboard(ctx)
	return lecturer, nil
}

// Update modifies an existing lecturer.
func (s *LecturerService) Update(ctx context.Context, id string, req UpdateLecturerRequest) (*models.Lecturer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecturer payload")
	}

	lecturer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer")
	}

	lecturer.Nama = strings.TrimSpace(req.Nama)
	lecturer.GambarURL = normalizeOptional(req.GambarURL)
	lecturer.Deskripsi = normalizeOptional(req.Deskripsi)
	lecturer.Susunan = req.Susunan

	if err := s.repo.Update(ctx, lecturer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lecturer")
	}

	s.invalidateDashboard(ctx)
	return lecturer, nil
}

// Delete removes a lecturer. Their evaluations survive with the
// reference nulled out.
func (s *LecturerService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lecturer")
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("lecturer deleted", zap.String("lecturer_id", id))
	return nil
}

func (s *LecturerService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, CachePatternDashboard); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
