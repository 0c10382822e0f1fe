/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/imetrics"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type propagationTask struct {
	op       PropagationOp
	name     qnames.QName
	location string
}

// propagator carries local mutations to the remote catalog through a bounded
// queue and a small worker pool, off the caller's goroutine. Remote outcomes
// never roll the local image back, a lost task is reported through metrics,
// the log and the failure hook.
type propagator struct {
	remote icatalog.ICatalog
	params Params
	tasks  chan propagationTask
	wg     sync.WaitGroup

	mOkTotal      *float64
	mFailedTotal  *float64
	mDroppedTotal *float64
}

func newPropagator(remote icatalog.ICatalog, params Params, metrics imetrics.IMetrics) *propagator {
	return &propagator{
		remote:        remote,
		params:        params,
		tasks:         make(chan propagationTask, params.queueSize()),
		mOkTotal:      metrics.MetricAddr(propagationOkTotal, params.Name),
		mFailedTotal:  metrics.MetricAddr(propagationFailuresTotal, params.Name),
		mDroppedTotal: metrics.MetricAddr(propagationDroppedTotal, params.Name),
	}
}

func (p *propagator) start() {
	for i := 0; i < p.params.workers(); i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				p.execute(task)
			}
		}()
	}
}

// submit never blocks. A full queue loses the task: the local image is
// already updated, so the loss is observable only through metrics, the log
// and the failure hook.
//
// Callers hold the mirror closeMu, submit never races with stop.
func (p *propagator) submit(task propagationTask) {
	select {
	case p.tasks <- task:
	default:
		imetrics.AddFloat64(p.mDroppedTotal, 1.0)
		logger.Error("propagation queue full:", task.op.String(), task.name.String())
		p.notify(task, ErrPropagationQueueFull)
	}
}

// stop closes the intake and waits until queued tasks are drained
func (p *propagator) stop() {
	close(p.tasks)
	p.wg.Wait()
}

func (p *propagator) execute(task propagationTask) {
	retries := p.params.retries()
	var err error
	for attempt := 0; ; attempt++ {
		if err = p.call(task); err == nil {
			imetrics.AddFloat64(p.mOkTotal, 1.0)
			return
		}
		if attempt >= retries {
			break
		}
		time.Sleep(p.params.retryDelay())
	}
	imetrics.AddFloat64(p.mFailedTotal, 1.0)
	logger.Error(fmt.Sprintf("%s «%s» propagation failed: %s", task.op, task.name, err))
	p.notify(task, err)
}

// call runs one remote attempt. Uses its own context so that queued tasks
// drain even while the mirror is closing. An outcome the local image already
// reflects is a success: the registered table exists remotely, the dropped
// table is gone.
func (p *propagator) call(task propagationTask) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.params.requestTimeout())
	defer cancel()

	switch task.op {
	case PropagationOp_Register:
		_, err := p.remote.RegisterTable(ctx, task.name, task.location)
		if errors.Is(err, icatalog.ErrTableAlreadyExists) {
			return nil
		}
		return err
	case PropagationOp_Drop:
		err := p.remote.DropTable(ctx, task.name)
		if errors.Is(err, icatalog.ErrTableNotFound) {
			return nil
		}
		return err
	}
	// notest
	return nil
}

func (p *propagator) notify(task propagationTask, err error) {
	if p.params.OnPropagationFailure != nil {
		p.params.OnPropagationFailure(task.op, task.name, err)
	}
}
