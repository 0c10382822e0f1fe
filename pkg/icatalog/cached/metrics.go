/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package cached

const (
	loadTotal           = "catalogmirror_icatalogcache_load_total"
	loadCachedTotal     = "catalogmirror_icatalogcache_load_cached_total"
	loadSeconds         = "catalogmirror_icatalogcache_load_seconds"
	registerTotal       = "catalogmirror_icatalogcache_register_total"
	registerSeconds     = "catalogmirror_icatalogcache_register_seconds"
	dropTotal           = "catalogmirror_icatalogcache_drop_total"
	dropSeconds         = "catalogmirror_icatalogcache_drop_seconds"
	listNamespacesTotal = "catalogmirror_icatalogcache_listnamespaces_total"
	listTablesTotal     = "catalogmirror_icatalogcache_listtables_total"
)
