package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	"github.com/masjid-almuttaqin/kuliah-api/internal/service"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
)

type memoryDraftStore struct {
	drafts map[string]models.Draft
}

func newMemoryDraftStore() *memoryDraftStore {
	return &memoryDraftStore{drafts: make(map[string]models.Draft)}
}

func (s *memoryDraftStore) Get(_ context.Context, key string) (*models.Draft, error) {
	draft, ok := s.drafts[key]
	if !ok {
		return nil, appErrors.ErrCacheMiss
	}
	return &draft, nil
}

func (s *memoryDraftStore) Set(_ context.Context, key string, draft models.Draft, _ time.Duration) error {
	s.drafts[key] = draft
	return nil
}

func (s *memoryDraftStore) Delete(_ context.Context, key string) error {
	delete(s.drafts, key)
	return nil
}

func newDraftHandlerForTest() *DraftHandler {
	return NewDraftHandler(service.NewDraftService(newMemoryDraftStore(), time.Hour, zap.NewNop()))
}

func draftRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	if body == nil {
		return httptest.NewRequest(method, target, nil)
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDraftHandlerSaveThenLoad(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDraftHandlerForTest()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "key", Value: "form-1"}}
	c.Request = draftRequest(t, http.MethodPut, "/drafts/form-1", models.Draft{
		EvaluatorInfo:     models.DraftEvaluatorInfo{Nama: "Ahmad"},
		SelectedLecturers: []string{"lec-1"},
	})
	handler.Save(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "key", Value: "form-1"}}
	c.Request = draftRequest(t, http.MethodGet, "/drafts/form-1", nil)
	handler.Load(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data DraftStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Exists)
	require.NotNil(t, envelope.Data.Draft)
	assert.Equal(t, "Ahmad", envelope.Data.Draft.EvaluatorInfo.Nama)
	assert.Equal(t, models.DraftVersion, envelope.Data.Draft.Version)
	assert.Equal(t, "baru sahaja", envelope.Data.AgeText)
}

func TestDraftHandlerLoadMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDraftHandlerForTest()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "key", Value: "missing"}}
	c.Request = draftRequest(t, http.MethodGet, "/drafts/missing", nil)
	handler.Load(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data DraftStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Exists)
	assert.Nil(t, envelope.Data.Draft)
}

func TestDraftHandlerClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemoryDraftStore()
	handler := NewDraftHandler(service.NewDraftService(store, time.Hour, zap.NewNop()))
	store.drafts["form-1"] = models.Draft{Version: models.DraftVersion}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "key", Value: "form-1"}}
	c.Request = draftRequest(t, http.MethodDelete, "/drafts/form-1", nil)
	handler.Clear(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.drafts)
}

func TestDraftHandlerSaveRequiresKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDraftHandlerForTest()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = draftRequest(t, http.MethodPut, "/drafts/", models.Draft{})
	handler.Save(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
