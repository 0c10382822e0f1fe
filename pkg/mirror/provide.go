/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

import (
	"context"

	"github.com/aptible/supercronic/cronexpr"

	"github.com/voedger/catalogmirror/pkg/icatalog"
)

// Provide snapshots the remote catalog and returns the ready to serve
// mirror. Returns ErrCatalogUnavailable when any remote call of the snapshot
// walk fails, an error when Params.ReconcileSchedule does not parse.
func Provide(ctx context.Context, remote icatalog.ICatalog, params Params) (IMirror, error) {
	var schedule *cronexpr.Expression
	if params.ReconcileSchedule != "" {
		expr, err := parseSchedule(params.ReconcileSchedule)
		if err != nil {
			return nil, err
		}
		schedule = expr
	}

	m := newMirror(remote, params)
	if err := m.loadSnapshot(ctx); err != nil {
		return nil, err
	}
	m.prop.start()
	if schedule != nil {
		m.startReconciler(schedule)
	}
	return m, nil
}
