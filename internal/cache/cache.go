package cache

import (
	"boardshop/internal/products"
)

// ErrCacheMiss is the products listing miss sentinel, re-exported for callers of this package.
var ErrCacheMiss = products.ErrCacheMiss

var _ products.Cache = (*RedisCache)(nil)
