package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
)

const draftKeyPrefix = "draft:"

// DraftRepository stores unsubmitted form drafts in Redis, keyed by the
// client-generated draft key. Expiry is handled by Redis TTLs.
type DraftRepository struct {
	client *redis.Client
}

// NewDraftRepository constructs a DraftRepository.
func NewDraftRepository(client *redis.Client) *DraftRepository {
	return &DraftRepository{client: client}
}

func draftKey(key string) string {
	return draftKeyPrefix + key
}

// Get retrieves a draft. A missing key reports a cache miss, which the
// service treats as no draft.
func (r *DraftRepository) Get(ctx context.Context, key string) (*models.Draft, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, draftKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get draft %s: %w", key, err)
	}

	var draft models.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft %s: %w", key, err)
	}
	return &draft, nil
}

// Set stores the draft with the provided TTL.
func (r *DraftRepository) Set(ctx context.Context, key string, draft models.Draft, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft %s: %w", key, err)
	}

	if err := r.client.Set(ctx, draftKey(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft %s: %w", key, err)
	}
	return nil
}

// Delete removes a draft.
func (r *DraftRepository) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, draftKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete draft %s: %w", key, err)
	}
	return nil
}
