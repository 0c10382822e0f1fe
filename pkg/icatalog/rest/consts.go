/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package rest

import "time"

const (
	// multipart namespaces travel in URLs joined with the unit separator
	namespaceSeparator = "\x1F"

	routePrefix = "/v1"

	defaultRequestTimeout    = 30 * time.Second
	defaultMetadataCacheSize = 128

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	contentTypeJSON     = "application/json"

	// summary fields of the current table snapshot
	summaryTotalRecords  = "total-records"
	summaryTotalFileSize = "total-files-size"
)
