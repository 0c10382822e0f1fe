/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 */

package bolt

import "io/fs"

const (
	namespacesBucketName = "namespacesBucket"
	tablesBucketName     = "tablesBucket"
	dbFileName           = "catalog.db"

	fileModeDB  fs.FileMode = 0o644
	fileModeDir fs.FileMode = 0o755
)
