/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 */

package bolt

type ParamsType struct {
	// DBDir is created on first use
	DBDir string
}
