// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"strings"

	"github.com/schoollys/atlas2/metrics"
)

var (
	metricEventsWritten    = metrics.LazyLoadCounter("logdb_events_written_total")
	metricQueryParameters  = metrics.LazyLoadCounterVec("logdb_query_parameters", []string{"parameters"})
	metricQueryOrder       = metrics.LazyLoadCounterVec("logdb_query_order", []string{"order"})
	metricQueryLimitBucket = metrics.LazyLoadHistogram("logdb_query_limit_bucket", []int64{0, 5, 10, 25, 50, 100, 250, 500, 1000})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	params := make([]string, 0, 4)
	if len(filter.Kinds) > 0 {
		params = append(params, "kind")
	}
	if filter.Account != nil {
		params = append(params, "account")
	}
	if filter.Era != nil {
		params = append(params, "era")
	}
	if filter.Range != nil {
		params = append(params, "range")
	}
	metricQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(params, ",")})

	if filter.Order == DESC {
		metricQueryOrder().AddWithLabel(1, map[string]string{"order": "desc"})
	} else {
		metricQueryOrder().AddWithLabel(1, map[string]string{"order": "asc"})
	}

	if filter.Options != nil {
		limit := filter.Options.Limit
		if limit > 1000 {
			limit = 1001
		}
		metricQueryLimitBucket().Observe(int64(limit))
	}
}
