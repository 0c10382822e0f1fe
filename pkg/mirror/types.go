/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

import (
	"time"

	"github.com/voedger/catalogmirror/pkg/imetrics"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type PropagationOp int

const (
	PropagationOp_Register PropagationOp = iota
	PropagationOp_Drop
)

func (op PropagationOp) String() string {
	switch op {
	case PropagationOp_Register:
		return "register"
	case PropagationOp_Drop:
		return "drop"
	}
	// notest
	return "unknown"
}

// OnPropagationFailureFunc observes lost remote propagations, once per failed
// task, after the local image was already updated. Failed remote calls report
// from a worker goroutine. A full queue reports from the mutating caller with
// ErrPropagationQueueFull, the task was never enqueued.
type OnPropagationFailureFunc func(op PropagationOp, name qnames.QName, err error)

type Params struct {
	// catalog name used as the metrics dimension
	Name string

	// new registry is used when nil
	Metrics imetrics.IMetrics

	// timeout of one remote call, snapshot walk and propagation alike
	RequestTimeout time.Duration

	PropagationQueueSize int
	PropagationWorkers   int

	// additional attempts of a failed remote call before the task is lost,
	// 0 means default, negative means none
	PropagationRetries int
	RetryDelay         time.Duration

	OnPropagationFailure OnPropagationFailureFunc

	// cron expression, empty disables the periodic reconciliation
	ReconcileSchedule string
}

func (p Params) metrics() imetrics.IMetrics {
	if p.Metrics == nil {
		return imetrics.Provide()
	}
	return p.Metrics
}

func (p Params) requestTimeout() time.Duration {
	if p.RequestTimeout == 0 {
		return defaultRequestTimeout
	}
	return p.RequestTimeout
}

func (p Params) queueSize() int {
	if p.PropagationQueueSize <= 0 {
		return defaultPropagationQueueSize
	}
	return p.PropagationQueueSize
}

func (p Params) workers() int {
	if p.PropagationWorkers <= 0 {
		return defaultPropagationWorkers
	}
	return p.PropagationWorkers
}

func (p Params) retries() int {
	if p.PropagationRetries < 0 {
		return 0
	}
	if p.PropagationRetries == 0 {
		return defaultPropagationRetries
	}
	return p.PropagationRetries
}

func (p Params) retryDelay() time.Duration {
	if p.RetryDelay <= 0 {
		return defaultRetryDelay
	}
	return p.RetryDelay
}
