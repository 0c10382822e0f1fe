/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

import "time"

const (
	storeShards = 256

	defaultRequestTimeout       = 30 * time.Second
	defaultPropagationQueueSize = 256
	defaultPropagationWorkers   = 2
	defaultPropagationRetries   = 2
	defaultRetryDelay           = 500 * time.Millisecond
)
