package products

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrCacheMiss is returned by a Cache that has no entry for a key.
var ErrCacheMiss = errors.New("cache miss")

// Lister fetches a page of products.
type Lister interface {
	List(ctx context.Context, q Query) (*Result, error)
}

// Cache stores listing results by Query.CacheKey.
type Cache interface {
	Get(ctx context.Context, key string) (*Result, error)
	Set(ctx context.Context, key string, res *Result) error
}

// Service is the product-fetching action used by the pages: a repository with
// an optional read-through cache in front of it.
type Service struct {
	repo   Lister
	cache  Cache
	logger *zap.Logger
}

// NewService wires the listing. cache may be nil.
func NewService(repo Lister, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

func (s *Service) List(ctx context.Context, q Query) (*Result, error) {
	q = q.Normalize()
	key := q.CacheKey()

	if s.cache != nil {
		res, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			return res, nil
		case !errors.Is(err, ErrCacheMiss):
			s.logger.Warn("product cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	res, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, res); err != nil {
			s.logger.Warn("product cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}

// PageCount is ceil(total / limit).
func PageCount(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}
