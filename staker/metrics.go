// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/metrics"
)

var (
	metricEras           = metrics.LazyLoadCounter("eras_total")
	metricCurrentEra     = metrics.LazyLoadGauge("current_era")
	metricSelected       = metrics.LazyLoadGauge("selected_validators")
	metricActive         = metrics.LazyLoadGauge("active_validators")
	metricRewardsPaid    = metrics.LazyLoadCounter("rewards_paid_total")
	metricRewardFailures = metrics.LazyLoadCounter("reward_distribution_failures_total")
	metricOperations     = metrics.LazyLoadCounterVec("staker_operations_total", []string{"op", "result"})
)

func countOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": result})
}

func clampInt64(b atlas.Balance) int64 {
	if v := b.Uint64(); v <= math.MaxInt64 {
		return int64(v)
	}
	return math.MaxInt64
}
