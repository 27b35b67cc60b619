// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/schoollys/atlas2/metrics"

var (
	metricBlocks        = metrics.LazyLoadCounter("chain_blocks_count")
	metricHeight        = metrics.LazyLoadGauge("chain_height")
	metricBlockDuration = metrics.LazyLoadHistogram("chain_block_duration_ms", metrics.BucketMillis)
	metricReceipts      = metrics.LazyLoadCounterVec("chain_receipts_count", []string{"result"})
	metricCacheHitMiss  = metrics.LazyLoadGaugeVec("chain_state_cache_hit_miss_count", []string{"event"})
)
