// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats collects cache hit/miss counts.
type Stats struct {
	hit, miss atomic.Int64
	flag      atomic.Int32
}

// Hit records a hit.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// HitRate returns hits per mille of all lookups.
func (cs *Stats) HitRate() int64 {
	hit, miss := cs.hit.Load(), cs.miss.Load()
	if hit+miss == 0 {
		return 0
	}
	return hit * 1000 / (hit + miss)
}

// Stats returns the number of hits and misses and whether
// the hit rate changed since the last call.
func (cs *Stats) Stats() (bool, int64, int64) {
	hit, miss := cs.hit.Load(), cs.miss.Load()
	flag := int32(cs.HitRate())
	return cs.flag.Swap(flag) != flag, hit, miss
}
