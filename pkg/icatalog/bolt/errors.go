/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 */

package bolt

import "errors"

var (
	ErrNamespacesBucketNotFound = errors.New("namespaces bucket not found")
	ErrTablesBucketNotFound     = errors.New("tables bucket not found")
)
