// Package metrics stores operational gauges and counters in an embedded
// time-series storage under the application workdir.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

var (
	mu       sync.Mutex
	store    tstorage.Storage
	counters = make(map[string]int64)
)

// InitMetrics opens the metrics storage under workdir/metrics.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(24*time.Hour),
	)
	if err != nil {
		return err
	}
	store = s
	return nil
}

// SetGauge records the current value of a gauge metric.
func SetGauge(name string, value int64) {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return
	}
	_ = store.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
		},
	})
}

// IncrCounter increments a monotonically increasing counter and records it.
func IncrCounter(name string, delta int64) {
	mu.Lock()
	defer mu.Unlock()
	counters[name] += delta
	if store == nil {
		return
	}
	_ = store.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(counters[name])},
		},
	})
}

// CounterValue returns the in-process value of a counter.
func CounterValue(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

// Select returns recorded points for a metric between start and end (unix seconds).
func Select(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return nil, nil
	}
	points, err := store.Select(name, nil, start, end)
	if err == tstorage.ErrNoDataPoints {
		return nil, nil
	}
	return points, err
}

// Close flushes and closes the metrics storage.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}
