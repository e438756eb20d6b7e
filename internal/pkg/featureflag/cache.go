package featureflag

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// DefaultTTL is how long a resolved flag map stays fresh without an
// intervening invalidation.
const DefaultTTL = 5 * time.Minute

// FlagCache fronts the Resolver with a short-TTL cache holding one entry
// per organization: the full resolved flag map. The cache is a performance
// optimization only; a failing backend degrades to direct resolution.
type FlagCache struct {
	backend  CacheBackend
	resolver *Resolver
	ttl      time.Duration
}

// NewFlagCache creates a cache over the given backend and resolver
func NewFlagCache(backend CacheBackend, resolver *Resolver, ttl time.Duration) *FlagCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FlagCache{backend: backend, resolver: resolver, ttl: ttl}
}

func cacheKey(orgID uint) string {
	return fmt.Sprintf("featureflags:org:%d", orgID)
}

// GetOrResolve returns the organization's effective flag map. A live cache
// entry is returned as-is; otherwise the full map is recomputed from the
// store and cached with a fresh TTL. Backend read failures fall through to
// direct resolution, backend write failures are logged and do not fail the
// read.
func (fc *FlagCache) GetOrResolve(orgID uint) (map[string]bool, error) {
	key := cacheKey(orgID)

	payload, hit, err := fc.backend.Get(key)
	if err != nil {
		log.Printf("flag cache: read for org %d failed, resolving directly: %v", orgID, err)
	} else if hit {
		var cached map[string]bool
		if err := json.Unmarshal([]byte(payload), &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry: drop it and recompute
		_ = fc.backend.Del(key)
	}

	resolved, err := fc.resolver.ResolveAll(orgID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(resolved); err == nil {
		if err := fc.backend.Set(key, string(raw), fc.ttl); err != nil {
			log.Printf("flag cache: store for org %d failed: %v", orgID, err)
		}
	}

	return resolved, nil
}

// Invalidate evicts the organization's entry regardless of remaining TTL.
// The next read recomputes from the store. The eviction is synchronous so a
// reader arriving strictly after a write's invalidation observes the new
// values.
func (fc *FlagCache) Invalidate(orgID uint) error {
	return fc.backend.Del(cacheKey(orgID))
}
