/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package imetrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicUsage(t *testing.T) {
	require := require.New(t)

	metrics := Provide()

	metrics.Increase("catalogmirror_mirror_registered_total", "main", 1.0)
	metrics.Increase("catalogmirror_mirror_registered_total", "main", 1.0)
	metrics.Increase("catalogmirror_mirror_registered_total", "backup", 1.0)
	metrics.Increase("catalogmirror_mirror_snapshot_seconds", "", 0.25)

	values := map[string]float64{}
	err := metrics.List(func(metric IMetric, metricValue float64) (err error) {
		values[metric.Name()+"/"+metric.Catalog()] = metricValue
		return nil
	})
	require.NoError(err)

	require.Equal(2.0, values["catalogmirror_mirror_registered_total/main"])
	require.Equal(1.0, values["catalogmirror_mirror_registered_total/backup"])
	require.Equal(0.25, values["catalogmirror_mirror_snapshot_seconds/"])

	// listing order is stable, name then catalog
	listed := []string{}
	err = metrics.List(func(metric IMetric, metricValue float64) (err error) {
		listed = append(listed, metric.Name()+"/"+metric.Catalog())
		return nil
	})
	require.NoError(err)
	require.Equal([]string{
		"catalogmirror_mirror_registered_total/backup",
		"catalogmirror_mirror_registered_total/main",
		"catalogmirror_mirror_snapshot_seconds/",
	}, listed)
}

func TestMetricAddr(t *testing.T) {
	require := require.New(t)

	metrics := Provide()

	addr := metrics.MetricAddr("catalogmirror_mirror_propagation_ok_total", "main")
	require.Same(addr, metrics.MetricAddr("catalogmirror_mirror_propagation_ok_total", "main"))
	require.NotSame(addr, metrics.MetricAddr("catalogmirror_mirror_propagation_ok_total", "backup"))

	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				AddFloat64(addr, 1.0)
			}
		}()
	}
	wg.Wait()

	err := metrics.List(func(metric IMetric, metricValue float64) (err error) {
		if metric.Catalog() == "main" {
			require.Equal(10000.0, metricValue)
		}
		return nil
	})
	require.NoError(err)
}

func TestToPrometheus(t *testing.T) {
	require := require.New(t)

	metrics := Provide()
	metrics.Increase("catalogmirror_mirror_registered_total", "main", 3)
	metrics.Increase("catalogmirror_mirror_snapshot_seconds", "", 0.5)

	lines := map[string]bool{}
	err := metrics.List(func(metric IMetric, metricValue float64) (err error) {
		lines[string(ToPrometheus(metric, metricValue))] = true
		return nil
	})
	require.NoError(err)

	require.True(lines["catalogmirror_mirror_registered_total{catalog=\"main\"} 3\n"])
	require.True(lines["catalogmirror_mirror_snapshot_seconds 0.5\n"])
}
