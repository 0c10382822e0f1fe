/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/imetrics"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

// loadSnapshot fills the empty store from the remote catalog. Runs once,
// before the mirror is published, so the staging map needs no locks. Any
// remote failure aborts with ErrCatalogUnavailable, a partial image is
// never installed.
func (m *mirror) loadSnapshot(ctx context.Context) error {
	start := time.Now()
	staged := make(map[qnames.QName]*entry)

	roots, err := m.listNamespaces(ctx, qnames.NullQName)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCatalogUnavailable, err)
	}
	for _, root := range roots {
		if err := m.walkNamespace(ctx, root, staged); err != nil {
			return fmt.Errorf("%w: %s", ErrCatalogUnavailable, err)
		}
	}

	namespaces, tables := 0, 0
	for name, e := range staged {
		m.shardOf(name).m[name] = e
		if e.kind == entryKind_Namespace {
			namespaces++
		} else {
			tables++
		}
	}

	elapsed := time.Since(start)
	imetrics.AddFloat64(m.mSnapshotNamespaces, float64(namespaces))
	imetrics.AddFloat64(m.mSnapshotTables, float64(tables))
	imetrics.AddFloat64(m.mSnapshotSeconds, elapsed.Seconds())
	logger.Info(fmt.Sprintf("catalog «%s» mirrored: %d namespaces, %d tables in %s", m.params.Name, namespaces, tables, elapsed))
	return nil
}

// walkNamespace stages ns, its relations and, depth first, its child
// namespaces. The child set mixes sub-namespace and relation leaves, entry
// kinds disambiguate them at read time.
func (m *mirror) walkNamespace(ctx context.Context, ns qnames.QName, staged map[qnames.QName]*entry) error {
	children := make(map[string]struct{})

	subs, err := m.listNamespaces(ctx, ns)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		children[sub.Entity()] = struct{}{}
		if err := m.walkNamespace(ctx, sub, staged); err != nil {
			return err
		}
	}

	tables, err := m.listTables(ctx, ns)
	if err != nil {
		return err
	}
	for _, table := range tables {
		if prior, ok := staged[table]; ok && prior.kind == entryKind_Namespace {
			return fmt.Errorf("remote catalog lists «%s» as both a namespace and a table", table)
		}
		handle, err := m.loadTable(ctx, table)
		if err != nil {
			return err
		}
		children[table.Entity()] = struct{}{}
		staged[table] = &entry{kind: entryKind_Relation, handle: handle}
	}

	staged[ns] = &entry{kind: entryKind_Namespace, children: children}
	return nil
}

func (m *mirror) listNamespaces(ctx context.Context, parent qnames.QName) ([]qnames.QName, error) {
	cctx, cancel := m.callCtx(ctx)
	defer cancel()
	return m.remote.ListNamespaces(cctx, parent)
}

func (m *mirror) listTables(ctx context.Context, ns qnames.QName) ([]qnames.QName, error) {
	cctx, cancel := m.callCtx(ctx)
	defer cancel()
	return m.remote.ListTables(cctx, ns)
}

func (m *mirror) loadTable(ctx context.Context, name qnames.QName) (icatalog.ITableHandle, error) {
	cctx, cancel := m.callCtx(ctx)
	defer cancel()
	return m.remote.LoadTable(cctx, name)
}
