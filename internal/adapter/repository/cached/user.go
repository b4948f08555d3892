package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"rest-user-service/internal/adapter/cache"
	domain "rest-user-service/internal/domain/user"
	"rest-user-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a persistent repository and a cache implementation.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// List delegates to the DB repository. Paginated filter queries are not cached.
func (r *CachedUserRepository) List(ctx context.Context, name string, page domain.Page) ([]domain.User, int64, error) {
	return r.dbRepo.List(ctx, name, page)
}

// GetByID retrieves a user by ID using the cache-aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			r.log.Debug("user retrieved from cache", zap.String("id", id))
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("user:%s", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				r.log.Debug("user retrieved from cache after single-flight wait", zap.String("id", id))
				return cachedUser, nil
			}
		}

		// Only one request hits the database
		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", id), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

// ExistsByEmail delegates to the DB repository. Uniqueness checks must never
// be answered from stale cache entries.
func (r *CachedUserRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.dbRepo.ExistsByEmail(ctx, email, excludeID)
}

// Insert delegates to the DB repository.
func (r *CachedUserRepository) Insert(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.dbRepo.Insert(ctx, u)
}

// UpdateByID updates the user in DB and invalidates the cache.
func (r *CachedUserRepository) UpdateByID(ctx context.Context, id string, p domain.Patch) (*domain.User, error) {
	updated, err := r.dbRepo.UpdateByID(ctx, id, p)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after update", zap.String("id", id), zap.Error(err))
		}
	}

	return updated, nil
}

// DeleteByID deletes the user from DB and invalidates the cache.
func (r *CachedUserRepository) DeleteByID(ctx context.Context, id string) (*domain.User, error) {
	deleted, err := r.dbRepo.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after delete", zap.String("id", id), zap.Error(err))
		}
	}

	return deleted, nil
}
