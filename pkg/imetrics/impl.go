/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package imetrics

import (
	"bytes"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/exp/maps"
)

type metric struct {
	name    string
	catalog string
}

func (m *metric) Name() string {
	return m.name
}

func (m *metric) Catalog() string {
	return m.catalog
}

type mapMetrics struct {
	metrics map[metric]*float64
	lock    sync.Mutex
}

func newMetrics() IMetrics {
	return &mapMetrics{
		metrics: make(map[metric]*float64),
	}
}

func (m *mapMetrics) Increase(metricName string, catalog string, valueDelta float64) {
	AddFloat64(m.MetricAddr(metricName, catalog), valueDelta)
}

func (m *mapMetrics) MetricAddr(metricName string, catalog string) *float64 {
	key := metric{
		name:    metricName,
		catalog: catalog,
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	addr, ok := m.metrics[key]
	if !ok {
		addr = new(float64)
		m.metrics[key] = addr
	}
	return addr
}

func (m *mapMetrics) List(cb func(metric IMetric, metricValue float64) (err error)) (err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	keys := maps.Keys(m.metrics)
	slices.SortFunc(keys, func(a, b metric) int {
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		return strings.Compare(a.catalog, b.catalog)
	})
	for _, key := range keys {
		key := key
		err = cb(&key, loadFloat64(m.metrics[key]))
		if err != nil {
			return
		}
	}
	return err
}

// AddFloat64 atomically adds delta to the value at addr.
//
// addr must be obtained from IMetrics.MetricAddr.
//
// @ConcurrentAccess
func AddFloat64(addr *float64, delta float64) {
	for {
		old := atomic.LoadUint64((*uint64)(unsafe.Pointer(addr)))
		new := math.Float64bits(math.Float64frombits(old) + delta)
		if atomic.CompareAndSwapUint64((*uint64)(unsafe.Pointer(addr)), old, new) {
			return
		}
	}
}

func loadFloat64(addr *float64) float64 {
	return math.Float64frombits(atomic.LoadUint64((*uint64)(unsafe.Pointer(addr))))
}

func ToPrometheus(metric IMetric, metricValue float64) []byte {
	bb := bytes.Buffer{}
	bb.WriteString(metric.Name())
	if metric.Catalog() != "" {
		bb.WriteString(`{catalog="`)
		bb.WriteString(metric.Catalog())
		bb.WriteString(`"}`)
	}
	bb.WriteRune(' ')
	bb.WriteString(strconv.FormatFloat(metricValue, 'f', -1, bitSize))
	bb.WriteRune('\n')
	return bb.Bytes()
}
