/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package cas

const (
	defaultKeyspace = "catalog"

	// SimpleWithReplication is good enough for a single node cluster
	SimpleWithReplication = "{ 'class' : 'SimpleStrategy', 'replication_factor' : 1 }"
)
