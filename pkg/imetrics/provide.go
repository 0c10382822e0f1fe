/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package imetrics

// Provide makes an empty in-process metrics registry
func Provide() IMetrics {
	return newMetrics()
}
