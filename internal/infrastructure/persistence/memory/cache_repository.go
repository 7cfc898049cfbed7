// Package memory provides the in-process cache used when redis is disabled
package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
)

const defaultTTL = 24 * time.Hour

// CacheItem represents a cached item
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

func (i CacheItem) expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// CacheRepository implements outbound.CacheRepository over a map
type CacheRepository struct {
	mu     sync.RWMutex
	data   map[string]CacheItem
	logger *zap.Logger
	now    func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// NewCacheRepository creates the cache and starts a sweeper running every
// cleanupInterval. A non-positive interval disables the sweeper; expired
// entries are then only dropped on access.
func NewCacheRepository(cleanupInterval time.Duration, logger *zap.Logger) *CacheRepository {
	r := &CacheRepository{
		data:   make(map[string]CacheItem),
		logger: logger.Named("memory-cache"),
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go r.sweep(cleanupInterval)
	}
	return r
}

// Get retrieves a value, returning outbound.ErrCacheMiss for absent or expired keys
func (r *CacheRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	item, ok := r.data[key]
	r.mu.RUnlock()

	if !ok {
		return nil, outbound.ErrCacheMiss
	}
	if item.expired(r.now()) {
		r.evict(key, item.ExpiresAt)
		return nil, outbound.ErrCacheMiss
	}
	return append([]byte(nil), item.Value...), nil
}

// Set stores a copy of value; a zero ttl means one day
func (r *CacheRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = CacheItem{
		Value:     append([]byte(nil), value...),
		ExpiresAt: r.now().Add(ttl),
	}
	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

// Exists checks if a live key exists in cache
func (r *CacheRepository) Exists(_ context.Context, key string) (bool, error) {
	r.mu.RLock()
	item, ok := r.data[key]
	r.mu.RUnlock()
	return ok && !item.expired(r.now()), nil
}

// Len returns the number of stored entries, expired ones included
func (r *CacheRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Close stops the sweeper
func (r *CacheRepository) Close() error {
	r.stopOnce.Do(func() { close(r.stop) })
	return nil
}

// evict removes key unless it was rewritten since it was read
func (r *CacheRepository) evict(key string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.data[key]; ok && cur.ExpiresAt.Equal(expiresAt) {
		delete(r.data, key)
	}
}

func (r *CacheRepository) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if n := r.purgeExpired(); n > 0 {
				r.logger.Debug("Purged expired cache entries", zap.Int("count", n))
			}
		}
	}
}

func (r *CacheRepository) purgeExpired() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for key, item := range r.data {
		if item.expired(now) {
			delete(r.data, key)
			purged++
		}
	}
	return purged
}
