/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

import (
	"context"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/imetrics"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type entryKind int

const (
	entryKind_Namespace entryKind = iota
	entryKind_Relation
)

// entry is either a namespace with its child leaf names or a relation with
// its shared handle. Children hold both sub-namespace and relation leaves,
// the kind of a child is resolved by looking the child entry up.
type entry struct {
	kind     entryKind
	children map[string]struct{}
	handle   icatalog.ITableHandle
}

type shard struct {
	mu sync.RWMutex
	m  map[qnames.QName]*entry
}

// mirror shards its image by key so that readers never block readers and
// writers contend per shard only. There is no global lock.
//
// Namespace entries are created by the snapshot load only, after
// construction the namespace set never changes. A mutation touches two keys,
// the relation and its parent namespace, and performs both updates under
// both shard locks, taken in index order, so racing mutations of the same
// relation serialize and readers never observe the relation without its leaf
// in the parent child set. Listing readers resolve child leaves through
// entry lookups, an unresolved leaf is skipped, not served.
type mirror struct {
	remote icatalog.ICatalog
	params Params
	shards [storeShards]shard

	prop   *propagator
	stopCh chan struct{}
	wg     sync.WaitGroup

	closeMu sync.RWMutex
	closed  bool

	/* metrics */
	mRegisteredTotal    *float64
	mDeregisteredTotal  *float64
	mReconcileRuns      *float64
	mReconcileDrift     *float64
	mSnapshotNamespaces *float64
	mSnapshotTables     *float64
	mSnapshotSeconds    *float64
}

var _ IMirror = (*mirror)(nil)

func newMirror(remote icatalog.ICatalog, params Params) *mirror {
	metrics := params.metrics()
	m := &mirror{
		remote:              remote,
		params:              params,
		stopCh:              make(chan struct{}),
		mRegisteredTotal:    metrics.MetricAddr(registeredTotal, params.Name),
		mDeregisteredTotal:  metrics.MetricAddr(deregisteredTotal, params.Name),
		mReconcileRuns:      metrics.MetricAddr(reconcileRunsTotal, params.Name),
		mReconcileDrift:     metrics.MetricAddr(reconcileDriftTotal, params.Name),
		mSnapshotNamespaces: metrics.MetricAddr(snapshotNamespacesTotal, params.Name),
		mSnapshotTables:     metrics.MetricAddr(snapshotTablesTotal, params.Name),
		mSnapshotSeconds:    metrics.MetricAddr(snapshotSeconds, params.Name),
	}
	for i := range m.shards {
		m.shards[i].m = make(map[qnames.QName]*entry)
	}
	m.prop = newPropagator(remote, params, metrics)
	return m
}

func (m *mirror) shardIdx(name qnames.QName) uint64 {
	return xxhash.Sum64String(name.String()) % storeShards
}

func (m *mirror) shardOf(name qnames.QName) *shard {
	return &m.shards[m.shardIdx(name)]
}

// lockPair write-locks the shards of both keys in index order. The returned
// func unlocks them.
func (m *mirror) lockPair(a, b qnames.QName) func() {
	ia, ib := m.shardIdx(a), m.shardIdx(b)
	if ia == ib {
		m.shards[ia].mu.Lock()
		return m.shards[ia].mu.Unlock
	}
	if ia > ib {
		ia, ib = ib, ia
	}
	m.shards[ia].mu.Lock()
	m.shards[ib].mu.Lock()
	return func() {
		m.shards[ib].mu.Unlock()
		m.shards[ia].mu.Unlock()
	}
}

// remote calls run under the per-call timeout regardless of the parent context
func (m *mirror) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.params.requestTimeout())
}

func (m *mirror) lookup(name qnames.QName) (e *entry, ok bool) {
	s := m.shardOf(name)
	s.mu.RLock()
	e, ok = s.m[name]
	s.mu.RUnlock()
	return e, ok
}

func (m *mirror) SchemaNames() []qnames.QName {
	res := qnames.QNames{}
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		for name, e := range s.m {
			if e.kind == entryKind_Namespace {
				res.Add(name)
			}
		}
		s.mu.RUnlock()
	}
	return res
}

func (m *mirror) NamespaceExists(namespace qnames.QName) bool {
	e, ok := m.lookup(namespace)
	return ok && e.kind == entryKind_Namespace
}

func (m *mirror) TableNames(namespace qnames.QName) ([]qnames.QName, error) {
	s := m.shardOf(namespace)
	s.mu.RLock()
	e, ok := s.m[namespace]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, namespace)
	}
	if e.kind != entryKind_Namespace {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrNotANamespace, namespace)
	}
	leaves := make([]string, 0, len(e.children))
	for leaf := range e.children {
		leaves = append(leaves, leaf)
	}
	s.mu.RUnlock()

	res := qnames.QNames{}
	for _, leaf := range leaves {
		child, err := namespace.Append(leaf)
		if err != nil {
			// notest
			continue
		}
		if ce, ok := m.lookup(child); ok && ce.kind == entryKind_Relation {
			res.Add(child)
		}
	}
	return res, nil
}

func (m *mirror) Table(name qnames.QName) (icatalog.ITableHandle, bool) {
	e, ok := m.lookup(name)
	if !ok || e.kind != entryKind_Relation {
		return nil, false
	}
	return e.handle, true
}

func (m *mirror) TableExists(name qnames.QName) bool {
	_, ok := m.Table(name)
	return ok
}

func (m *mirror) RegisterTable(name qnames.QName, handle icatalog.ITableHandle) (icatalog.ITableHandle, error) {
	if handle == nil {
		panic("nil table handle")
	}
	m.closeMu.RLock()
	defer m.closeMu.RUnlock()
	if m.closed {
		return nil, ErrMirrorClosed
	}

	if name.NumParts() < 2 {
		return nil, fmt.Errorf("%w: relation name «%s» must be namespace qualified", qnames.ErrMalformedName, name)
	}
	if !handle.Name().IsNull() && handle.Name() != name {
		return nil, fmt.Errorf("%w: %s vs %s", ErrHandleNameMismatch, handle.Name(), name)
	}

	parent := name.Namespace()

	// the namespace set is immutable after construction, validation outcome is stable
	if pe, ok := m.lookup(parent); !ok {
		return nil, fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, parent)
	} else if pe.kind != entryKind_Namespace {
		return nil, fmt.Errorf("%w: %s", ErrNotANamespace, parent)
	}
	if te, ok := m.lookup(name); ok && te.kind == entryKind_Namespace {
		return nil, fmt.Errorf("%w: %s is a namespace", ErrNotATable, name)
	}

	// both updates under both shard locks. Child insertion is idempotent,
	// re-registration replaces the prior handle.
	unlock := m.lockPair(parent, name)
	m.shardOf(parent).m[parent].children[name.Entity()] = struct{}{}
	m.shardOf(name).m[name] = &entry{kind: entryKind_Relation, handle: handle}
	unlock()

	imetrics.AddFloat64(m.mRegisteredTotal, 1.0)
	m.prop.submit(propagationTask{op: PropagationOp_Register, name: name, location: handle.MetadataLocation()})
	return handle, nil
}

func (m *mirror) DeregisterTable(name qnames.QName) (icatalog.ITableHandle, error) {
	m.closeMu.RLock()
	defer m.closeMu.RUnlock()
	if m.closed {
		return nil, ErrMirrorClosed
	}

	parent := name.Namespace()
	unlock := m.lockPair(parent, name)
	e, ok := m.shardOf(name).m[name]
	if !ok {
		unlock()
		return nil, fmt.Errorf("%w: %s", icatalog.ErrTableNotFound, name)
	}
	if e.kind != entryKind_Relation {
		unlock()
		return nil, fmt.Errorf("%w: %s is a namespace", ErrNotATable, name)
	}
	delete(m.shardOf(name).m, name)
	if pe, ok := m.shardOf(parent).m[parent]; ok && pe.kind == entryKind_Namespace {
		delete(pe.children, name.Entity())
	}
	unlock()

	imetrics.AddFloat64(m.mDeregisteredTotal, 1.0)
	m.prop.submit(propagationTask{op: PropagationOp_Drop, name: name})
	return e.handle, nil
}

func (m *mirror) Close() {
	m.closeMu.Lock()
	if m.closed {
		m.closeMu.Unlock()
		return
	}
	m.closed = true
	m.closeMu.Unlock()

	close(m.stopCh)
	m.prop.stop()
	m.wg.Wait()
}
