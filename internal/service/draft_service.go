package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
)

type draftStore interface {
	Get(ctx context.Context, key string) (*models.Draft, error)
	Set(ctx context.Context, key string, draft models.Draft, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DraftService keeps unsubmitted form state server-side, keyed by a
// client-generated draft key. Drafts are ephemeral: they expire on TTL
// and a schema version mismatch purges them silently.
type DraftService struct {
	store  draftStore
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewDraftService constructs a DraftService.
func NewDraftService(store draftStore, ttl time.Duration, logger *zap.Logger) *DraftService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Save stamps the draft with the current schema version and timestamp
// and stores it under the key.
func (s *DraftService) Save(ctx context.Context, key string, draft models.Draft) error {
	if key == "" {
		return appErrors.Clone(appErrors.ErrValidation, "draft key is required")
	}
	draft.Version = models.DraftVersion
	draft.Timestamp = s.now().UnixMilli()
	if draft.Ratings == nil {
		draft.Ratings = make(map[string]models.DraftRating)
	}
	if draft.SelectedLecturers == nil {
		draft.SelectedLecturers = make([]string, 0)
	}

	if err := s.store.Set(ctx, key, draft, s.ttl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save draft")
	}
	return nil
}

// Load returns the stored draft, or nil when there is none. A draft
// written by a different schema version is purged and treated as absent.
func (s *DraftService) Load(ctx context.Context, key string) (*models.Draft, error) {
	draft, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}

	if draft.Version != models.DraftVersion {
		s.logger.Info("purging draft with stale schema version",
			zap.Int("stored_version", draft.Version),
			zap.Int("current_version", models.DraftVersion))
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to purge stale draft", zap.Error(err))
		}
		return nil, nil
	}

	return draft, nil
}

// Has reports whether a schema-compatible draft exists.
func (s *DraftService) Has(ctx context.Context, key string) (bool, error) {
	draft, err := s.Load(ctx, key)
	if err != nil {
		return false, err
	}
	return draft != nil, nil
}

// Clear removes the stored draft. Clearing an absent draft is a no-op.
func (s *DraftService) Clear(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear draft")
	}
	return nil
}

// Age returns the draft age in whole minutes.
func (s *DraftService) Age(draft models.Draft) int {
	ageMs := s.now().UnixMilli() - draft.Timestamp
	if ageMs < 0 {
		return 0
	}
	return int(ageMs / 60000)
}

// EmptyDraft builds a fresh draft skeleton with today's date prefilled.
func (s *DraftService) EmptyDraft() models.Draft {
	return models.Draft{
		Version:   models.DraftVersion,
		Timestamp: s.now().UnixMilli(),
		EvaluatorInfo: models.DraftEvaluatorInfo{
			Tarikh: s.now().Format("2006-01-02"),
		},
		SelectedLecturers: make([]string, 0),
		Ratings:           make(map[string]models.DraftRating),
	}
}

// FormatDraftAge renders an age in minutes for display.
func FormatDraftAge(minutes int) string {
	if minutes < 1 {
		return "baru sahaja"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d minit yang lalu", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%d jam yang lalu", hours)
	}
	return fmt.Sprintf("%d hari yang lalu", hours/24)
}
