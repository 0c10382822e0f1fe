/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

import "errors"

var (
	ErrNotANamespace        = errors.New("not a namespace")
	ErrNotATable            = errors.New("not a table")
	ErrCatalogUnavailable   = errors.New("catalog unavailable")
	ErrPropagationQueueFull = errors.New("propagation queue full")
	ErrHandleNameMismatch   = errors.New("handle name mismatch")
	ErrMirrorClosed         = errors.New("mirror is closed")
)
