/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package imetrics

type IMetric interface {
	Name() string

	// Catalog returns empty string when the metric is not bound to a particular catalog
	Catalog() string
}

type IMetrics interface {
	// Increase metric value with "delta".
	// The default metric value is always 0.
	// Naming best practices: https://prometheus.io/docs/practices/naming/
	//
	// @ConcurrentAccess
	Increase(metricName string, catalog string, valueDelta float64)

	// MetricAddr returns address of the metric value.
	//
	// The value behind the address is updated with AddFloat64, so hot paths
	// pay one atomic add instead of a registry lookup.
	//
	// @ConcurrentAccess
	MetricAddr(metricName string, catalog string) *float64

	// List current values of all metrics, ordered by metric name then catalog
	//
	// @ConcurrentAccess
	List(cb func(metric IMetric, metricValue float64) (err error)) (err error)
}
