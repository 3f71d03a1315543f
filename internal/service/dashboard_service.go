package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
)

// DashboardConfig tunes the derived aggregates.
type DashboardConfig struct {
	AlertThreshold float64
	TrendMonths    int
	CacheTTL       time.Duration
}

// DashboardService composes the admin overview from a single evaluation
// scan. The whole payload is cached; any write to evaluations, lecturers
// or sessions invalidates it.
type DashboardService struct {
	evaluations evaluationRepository
	lecturers   lecturerRepository
	cache       *CacheService
	cfg         DashboardConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(evaluations evaluationRepository, lecturers lecturerRepository, cache *CacheService, cfg DashboardConfig, logger *zap.Logger) *DashboardService {
	if cfg.AlertThreshold == 0 {
		cfg.AlertThreshold = DefaultAlertThreshold
	}
	if cfg.TrendMonths <= 0 {
		cfg.TrendMonths = DefaultTrendMonths
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		evaluations: evaluations,
		lecturers:   lecturers,
		cache:       cache,
		cfg:         cfg,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Overview returns the cached dashboard payload, rebuilding it on miss.
func (s *DashboardService) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	var cached models.DashboardOverview
	if hit, _ := s.cache.Get(ctx, CacheKeyDashboard, &cached); hit {
		return &cached, nil
	}

	overview, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, CacheKeyDashboard, overview, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return overview, nil
}

func (s *DashboardService) build(ctx context.Context) (*models.DashboardOverview, error) {
	evaluations, err := s.evaluations.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}
	lecturers, err := s.lecturers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturers")
	}

	nameByID := make(map[string]string, len(lecturers))
	for _, l := range lecturers {
		nameByID[l.ID] = l.Nama
	}

	scores := CalculateLecturerScores(evaluations, nameByID)
	trend := CalculateMonthlyTrend(evaluations, s.cfg.TrendMonths, "", s.now())

	averageScore := 0.0
	if len(scores) > 0 {
		for _, sc := range scores {
			averageScore += sc.AvgOverall
		}
		averageScore /= float64(len(scores))
	}

	return &models.DashboardOverview{
		TotalEvaluations:    len(evaluations),
		TotalLecturers:      len(lecturers),
		AverageScore:        averageScore,
		RecommendationStats: CalculateRecommendationStats(evaluations),
		Scores:              scores,
		Trend:               trend,
		TrendDirection:      TrendDirection(trend),
		Alerts:              LowScoreAlerts(evaluations, s.cfg.AlertThreshold),
		GeneratedAt:         s.now(),
	}, nil
}

// Trend returns the monthly trend, optionally scoped to one lecturer.
func (s *DashboardService) Trend(ctx context.Context, lecturerID string, months int) ([]models.TrendPoint, error) {
	if months <= 0 {
		months = s.cfg.TrendMonths
	}

	key := CacheKeyTrend
	if lecturerID == "" && months == s.cfg.TrendMonths {
		var cached []models.TrendPoint
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, nil
		}
	}

	evaluations, err := s.evaluations.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}
	trend := CalculateMonthlyTrend(evaluations, months, lecturerID, s.now())

	if lecturerID == "" && months == s.cfg.TrendMonths {
		if err := s.cache.Set(ctx, key, trend, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("trend cache write failed", zap.Error(err))
		}
	}
	return trend, nil
}

// Compare computes side-by-side aggregates for an explicit lecturer id
// list, preserving request order.
func (s *DashboardService) Compare(ctx context.Context, lecturerIDs []string) ([]models.LecturerComparison, error) {
	if len(lecturerIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one lecturer id is required")
	}

	evaluations, err := s.evaluations.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}
	lecturers, err := s.lecturers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturers")
	}

	return CalculateLecturerComparison(evaluations, lecturers, lecturerIDs), nil
}

// Alerts returns the low-score alert list at the configured threshold,
// or at an explicit override when the caller passes one above zero.
func (s *DashboardService) Alerts(ctx context.Context, threshold float64) ([]models.LecturerAlert, error) {
	if threshold <= 0 {
		threshold = s.cfg.AlertThreshold
	}
	evaluations, err := s.evaluations.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}
	return LowScoreAlerts(evaluations, threshold), nil
}
