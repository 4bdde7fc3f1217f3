package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"prooflayer/internal/entitlement/models"
	platformredis "prooflayer/internal/platform/redis"
	id "prooflayer/pkg/domain"
	txcontext "prooflayer/pkg/platform/tx"
)

// Backend is the persistent store the cache reads through.
type Backend interface {
	GetOrCreate(ctx context.Context, e *models.Entitlement) (*models.Entitlement, error)
	FindByUserID(ctx context.Context, userID id.UserID) (*models.Entitlement, error)
	Execute(ctx context.Context, userID id.UserID, validate func(*models.Entitlement) error, apply func(*models.Entitlement)) (*models.Entitlement, error)
	ResetPeriods(ctx context.Context, now time.Time) ([]id.UserID, error)
}

// Cache is the subset of the JSON cache used here.
type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
}

// Cached is a read-through cache keyed entitlement:{user}. Writes go to the
// backend first and evict once the surrounding transaction commits, so a
// cache failure can only cost a miss. Fills are deferred the same way so an
// uncommitted row never reaches the cache.
type Cached struct {
	next   Backend
	cache  Cache
	logger *slog.Logger
}

func NewCached(next Backend, cache Cache, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{next: next, cache: cache, logger: logger}
}

func cacheKey(userID id.UserID) string {
	return "entitlement:" + userID.String()
}

func (c *Cached) FindByUserID(ctx context.Context, userID id.UserID) (*models.Entitlement, error) {
	var cached models.Entitlement
	err := c.cache.Get(ctx, cacheKey(userID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, platformredis.ErrCacheMiss) {
		c.logger.WarnContext(ctx, "entitlement cache read failed", "error", err)
	}

	e, err := c.next.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.fillAfterCommit(ctx, e)
	return e, nil
}

func (c *Cached) GetOrCreate(ctx context.Context, e *models.Entitlement) (*models.Entitlement, error) {
	out, err := c.next.GetOrCreate(ctx, e)
	if err != nil {
		return nil, err
	}
	c.fillAfterCommit(ctx, out)
	return out, nil
}

func (c *Cached) Execute(ctx context.Context, userID id.UserID, validate func(*models.Entitlement) error, apply func(*models.Entitlement)) (*models.Entitlement, error) {
	out, err := c.next.Execute(ctx, userID, validate, apply)
	if err != nil {
		return nil, err
	}
	txcontext.AfterCommit(ctx, func(ctx context.Context) { c.evict(ctx, userID) })
	return out, nil
}

func (c *Cached) ResetPeriods(ctx context.Context, now time.Time) ([]id.UserID, error) {
	reset, err := c.next.ResetPeriods(ctx, now)
	if err != nil {
		return nil, err
	}
	txcontext.AfterCommit(ctx, func(ctx context.Context) { c.evict(ctx, reset...) })
	return reset, nil
}

func (c *Cached) fillAfterCommit(ctx context.Context, e *models.Entitlement) {
	snapshot := *e
	txcontext.AfterCommit(ctx, func(ctx context.Context) {
		if err := c.cache.Set(ctx, cacheKey(snapshot.UserID), &snapshot); err != nil {
			c.logger.WarnContext(ctx, "entitlement cache write failed", "error", err)
		}
	})
}

func (c *Cached) evict(ctx context.Context, userIDs ...id.UserID) {
	if len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, uid := range userIDs {
		keys[i] = cacheKey(uid)
	}
	if err := c.cache.Delete(ctx, keys...); err != nil {
		c.logger.WarnContext(ctx, "entitlement cache evict failed", "error", err)
	}
}
