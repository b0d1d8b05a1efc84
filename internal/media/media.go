// Package media defines the external media-store and cache-invalidation
// collaborators consumed by the cascade deletion coordinator. Real
// implementations (object storage, CDN) live outside this service; this core
// only issues best-effort deletion and invalidation calls by opaque key.
package media

import (
	"context"

	"github.com/taikikob/teamup-sub000/internal/logger"
)

//go:generate mockgen -source=media.go -destination=../mocks/media_mocks.go -package=mocks

// Store removes stored media objects by opaque key
type Store interface {
	DeleteObject(ctx context.Context, key string) error
}

// CacheInvalidator asks the CDN-like layer to drop cached copies of a key.
// Calls are fire-and-forget; failures are logged only.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, key string) error
}

// DisabledStore is the local/dev implementation: it logs the key it would
// have deleted and succeeds.
type DisabledStore struct {
	log *logger.Logger
}

// NewDisabledStore creates a DisabledStore
func NewDisabledStore() *DisabledStore {
	return &DisabledStore{log: logger.New().WithField("collaborator", "media_store")}
}

// DeleteObject logs and succeeds
func (s *DisabledStore) DeleteObject(ctx context.Context, key string) error {
	s.log.WithField("key", key).Debug("media store disabled, skipping delete")
	return nil
}

// DisabledInvalidator is the local/dev cache invalidator
type DisabledInvalidator struct {
	log *logger.Logger
}

// NewDisabledInvalidator creates a DisabledInvalidator
func NewDisabledInvalidator() *DisabledInvalidator {
	return &DisabledInvalidator{log: logger.New().WithField("collaborator", "media_cache")}
}

// Invalidate logs and succeeds
func (i *DisabledInvalidator) Invalidate(ctx context.Context, key string) error {
	i.log.WithField("key", key).Debug("media cache disabled, skipping invalidation")
	return nil
}
