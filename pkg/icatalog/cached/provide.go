/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package cached

import (
	"time"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/imetrics"
)

// Provide wraps catalog with a table handle cache.
//
// ttl == 0 caches handles until explicit invalidation.
func Provide(ttl time.Duration, catalog icatalog.ICatalog, metrics imetrics.IMetrics, catalogName string) icatalog.ICatalog {
	return newCachedCatalog(ttl, catalog, metrics, catalogName)
}
