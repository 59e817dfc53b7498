package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-errpage-embed/internal/cache"
	"github.com/tbourn/go-errpage-embed/internal/domain"
	"github.com/tbourn/go-errpage-embed/internal/dsn"
	"github.com/tbourn/go-errpage-embed/internal/observability"
	"github.com/tbourn/go-errpage-embed/internal/repo"
)

// KeyResolver turns the dsn query parameter into an active ProjectKey.
type KeyResolver struct {
	DB *gorm.DB
	// Cache is optional; nil behaves as a cache that never hits.
	Cache cache.KeyCache
}

// NewKeyResolver builds a resolver. A nil kc disables caching.
func NewKeyResolver(db *gorm.DB, kc cache.KeyCache) *KeyResolver {
	if kc == nil {
		kc = cache.Noop{}
	}
	return &KeyResolver{DB: db, Cache: kc}
}

// Resolve parses raw and returns the matching active key with its Project.
//
// Errors:
//   - ErrKeyNotFound when raw is empty, unparsable, or matches no active key.
//   - The underlying DB error for anything else.
func (r *KeyResolver) Resolve(ctx context.Context, raw string) (*domain.ProjectKey, error) {
	d, err := dsn.Parse(raw)
	if err != nil {
		return nil, ErrKeyNotFound
	}

	ctx, span := observability.StartSpan(ctx, "keys.resolve",
		attribute.Int64("project_id", int64(d.ProjectID)))
	defer span.End()

	kc := r.Cache
	if kc == nil {
		kc = cache.Noop{}
	}
	if k, ok := kc.Get(ctx, d.ProjectID, d.PublicKey); ok {
		observability.KeyCacheLookups.WithLabelValues("hit").Inc()
		return k, nil
	}
	observability.KeyCacheLookups.WithLabelValues("miss").Inc()

	k, err := repo.GetActiveProjectKey(ctx, r.DB, d.ProjectID, d.PublicKey)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrKeyNotFound
		}
		span.RecordError(err)
		return nil, err
	}
	kc.Set(ctx, k)
	return k, nil
}
