package usecase

import "time"

const (
	// DefaultUpstreamTimeout bounds a single validation's upstream lookups.
	DefaultUpstreamTimeout = 10 * time.Second

	// DefaultStatusCacheTTL is how long a bridge status snapshot is served from cache.
	// Daily usage moves with every bridged transfer so this stays short.
	DefaultStatusCacheTTL = 30 * time.Second

	// StatusCacheKeyPrefix namespaces bridge status snapshots in the cache.
	StatusCacheKeyPrefix = "bridge:status:"
)
