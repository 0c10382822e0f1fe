/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/aptible/supercronic/cronexpr"
	"github.com/untillpro/goutils/logger"

	"github.com/voedger/catalogmirror/pkg/imetrics"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

func parseSchedule(schedule string) (*cronexpr.Expression, error) {
	expr, err := cronexpr.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("reconcile schedule «%s»: %w", schedule, err)
	}
	return expr, nil
}

// startReconciler spawns the periodic drift repair. Stopped by Close.
func (m *mirror) startReconciler(expr *cronexpr.Expression) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			next := expr.Next(time.Now())
			if next.IsZero() {
				// notest
				return
			}
			timer := time.NewTimer(time.Until(next))
			select {
			case <-m.stopCh:
				timer.Stop()
				return
			case <-timer.C:
				m.Reconcile()
			}
		}
	}()
}

// Reconcile compares the image with the remote catalog, namespace by
// namespace. Mirrored relations missing remotely are propagated again,
// remote tables unknown locally are logged only: the image mutates through
// RegisterTable and DeregisterTable, never behind the caller's back.
func (m *mirror) Reconcile() {
	m.closeMu.RLock()
	defer m.closeMu.RUnlock()
	if m.closed {
		return
	}

	imetrics.AddFloat64(m.mReconcileRuns, 1.0)
	drift := 0
	for _, ns := range m.SchemaNames() {
		remoteTables, err := m.listTables(context.Background(), ns)
		if err != nil {
			logger.Error("reconcile: list tables of", ns.String(), "failed:", err.Error())
			continue
		}
		remoteSet := make(map[qnames.QName]struct{}, len(remoteTables))
		for _, name := range remoteTables {
			remoteSet[name] = struct{}{}
		}

		local, err := m.TableNames(ns)
		if err != nil {
			// notest
			continue
		}
		for _, name := range local {
			if _, ok := remoteSet[name]; ok {
				continue
			}
			if handle, ok := m.Table(name); ok {
				drift++
				logger.Warning("reconcile:", name.String(), "is missing remotely, registration enqueued again")
				m.prop.submit(propagationTask{op: PropagationOp_Register, name: name, location: handle.MetadataLocation()})
			}
		}
		for _, name := range remoteTables {
			if !m.TableExists(name) {
				drift++
				logger.Warning("reconcile:", name.String(), "exists remotely but is not mirrored")
			}
		}
	}
	if drift > 0 {
		imetrics.AddFloat64(m.mReconcileDrift, float64(drift))
	}
}
