package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
)

type fakeDraftStore struct {
	drafts  map[string]models.Draft
	deleted []string
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: make(map[string]models.Draft)}
}

func (f *fakeDraftStore) Get(_ context.Context, key string) (*models.Draft, error) {
	draft, ok := f.drafts[key]
	if !ok {
		return nil, appErrors.ErrCacheMiss
	}
	return &draft, nil
}

func (f *fakeDraftStore) Set(_ context.Context, key string, draft models.Draft, _ time.Duration) error {
	f.drafts[key] = draft
	return nil
}

func (f *fakeDraftStore) Delete(_ context.Context, key string) error {
	delete(f.drafts, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func TestDraftService_SaveStampsVersionAndTimestamp(t *testing.T) {
	store := newFakeDraftStore()
	svc := NewDraftService(store, time.Hour, zap.NewNop())
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	err := svc.Save(context.Background(), "draft-key", models.Draft{Version: 99})
	require.NoError(t, err)

	stored := store.drafts["draft-key"]
	assert.Equal(t, models.DraftVersion, stored.Version)
	assert.Equal(t, now.UnixMilli(), stored.Timestamp)
	assert.NotNil(t, stored.Ratings)
	assert.NotNil(t, stored.SelectedLecturers)
}

func TestDraftService_SaveRequiresKey(t *testing.T) {
	svc := NewDraftService(newFakeDraftStore(), time.Hour, zap.NewNop())
	err := svc.Save(context.Background(), "", models.Draft{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDraftService_LoadMissingIsNil(t *testing.T) {
	svc := NewDraftService(newFakeDraftStore(), time.Hour, zap.NewNop())
	draft, err := svc.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestDraftService_LoadPurgesVersionMismatch(t *testing.T) {
	store := newFakeDraftStore()
	store.drafts["draft-key"] = models.Draft{Version: models.DraftVersion + 1}

	svc := NewDraftService(store, time.Hour, zap.NewNop())
	draft, err := svc.Load(context.Background(), "draft-key")
	require.NoError(t, err)
	assert.Nil(t, draft)
	assert.Contains(t, store.deleted, "draft-key")
	assert.NotContains(t, store.drafts, "draft-key")
}

func TestDraftService_HasAndClear(t *testing.T) {
	store := newFakeDraftStore()
	svc := NewDraftService(store, time.Hour, zap.NewNop())
	ctx := context.Background()

	ok, err := svc.Has(ctx, "draft-key")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Save(ctx, "draft-key", models.Draft{}))
	ok, err = svc.Has(ctx, "draft-key")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Clear(ctx, "draft-key"))
	ok, err = svc.Has(ctx, "draft-key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDraftService_Age(t *testing.T) {
	svc := NewDraftService(newFakeDraftStore(), time.Hour, zap.NewNop())
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	draft := models.Draft{Timestamp: now.Add(-30 * time.Minute).UnixMilli()}
	assert.Equal(t, 30, svc.Age(draft))

	future := models.Draft{Timestamp: now.Add(time.Minute).UnixMilli()}
	assert.Equal(t, 0, svc.Age(future))
}

func TestDraftService_EmptyDraftPrefillsToday(t *testing.T) {
	svc := NewDraftService(newFakeDraftStore(), time.Hour, zap.NewNop())
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	draft := svc.EmptyDraft()
	assert.Equal(t, "2026-01-10", draft.EvaluatorInfo.Tarikh)
	assert.Equal(t, models.DraftVersion, draft.Version)
	assert.Empty(t, draft.SelectedLecturers)
	assert.Empty(t, draft.Ratings)
}

func TestFormatDraftAge(t *testing.T) {
	assert.Equal(t, "baru sahaja", FormatDraftAge(0))
	assert.Equal(t, "30 minit yang lalu", FormatDraftAge(30))
	assert.Equal(t, "1 jam yang lalu", FormatDraftAge(90))
	assert.Equal(t, "1 hari yang lalu", FormatDraftAge(1500))
}
