// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// LRU is a typed LRU cache that extends golang-lru and records hit/miss stats.
type LRU[K comparable, V any] struct {
	inner *lru.Cache
	Stats
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	inner, err := lru.New(maxSize)
	if err != nil {
		return nil, errors.Wrap(err, "new lru cache")
	}
	return &LRU[K, V]{inner: inner}, nil
}

// Get looks up the key and records a hit or miss.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.inner.Get(key); ok {
		l.Hit()
		return v.(V), true
	}
	l.Miss()
	var zero V
	return zero, false
}

// Add adds or replaces a value.
func (l *LRU[K, V]) Add(key K, value V) {
	l.inner.Add(key, value)
}

// Remove evicts the key if present.
func (l *LRU[K, V]) Remove(key K) {
	l.inner.Remove(key)
}

// Purge clears the cache.
func (l *LRU[K, V]) Purge() {
	l.inner.Purge()
}

// Len returns the number of cached entries.
func (l *LRU[K, V]) Len() int {
	return l.inner.Len()
}

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU[K, V]) GetOrLoad(key K, loader func(K) (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		return v, err
	}
	l.Add(key, v)
	return v, nil
}
