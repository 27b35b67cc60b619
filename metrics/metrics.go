// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
)

// Metrics creates meters on demand. Meters with the same name are shared.
type Metrics interface {
	Counter(name string) CountMeter
	CounterVec(name string, labels []string) CountVecMeter
	Gauge(name string) GaugeMeter
	GaugeVec(name string, labels []string) GaugeVecMeter
	Histogram(name string, buckets []int64) HistogramMeter
	HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	Handler() http.Handler
}

type holder struct{ Metrics }

var current atomic.Value

func init() {
	current.Store(holder{noopMetrics{}})
}

func service() Metrics {
	return current.Load().(holder).Metrics
}

// HTTPHandler returns the handler exposing the metrics, nil when metrics are disabled.
func HTTPHandler() http.Handler {
	return service().Handler()
}

// Buckets for histograms.
var (
	BucketWeight = []int64{0, 25, 50, 100, 250, 500, 1000, 2500, 5000} // in millions
	BucketMillis = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000}
)

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a counter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a value that can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// GaugeVecMeter is a gauge partitioned by labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

// HistogramMeter aggregates observations into buckets.
type HistogramMeter interface {
	Observe(int64)
}

// HistogramVecMeter is a histogram partitioned by labels.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

func Counter(name string) CountMeter { return service().Counter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return service().CounterVec(name, labels)
}

func Gauge(name string) GaugeMeter { return service().Gauge(name) }

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return service().GaugeVec(name, labels)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return service().Histogram(name, buckets)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return service().HistogramVec(name, labels, buckets)
}

// LazyLoad defers creating a meter until its first use, so meters can be declared
// as package variables before the metrics service is chosen.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}
