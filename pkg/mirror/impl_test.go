/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/icatalog/mem"
	"github.com/voedger/catalogmirror/pkg/imetrics"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

// newRemote seeds an in-memory catalog:
//
//	sales            namespace
//	sales.orders     table
//	sales.eu         namespace
//	sales.eu.invoices table
//	hr               namespace, empty
func newRemote(t *testing.T) icatalog.ICatalog {
	require := require.New(t)
	ctx := context.Background()

	remote := mem.Provide()
	admin := remote.(icatalog.ICatalogAdmin)
	require.NoError(admin.CreateNamespace(ctx, qnames.MustParse("sales"), nil))
	require.NoError(admin.CreateNamespace(ctx, qnames.MustParse("sales.eu"), nil))
	require.NoError(admin.CreateNamespace(ctx, qnames.MustParse("hr"), nil))
	_, err := remote.RegisterTable(ctx, qnames.MustParse("sales.orders"), "s3://wh/sales/orders/m1.json")
	require.NoError(err)
	_, err = remote.RegisterTable(ctx, qnames.MustParse("sales.eu.invoices"), "s3://wh/sales/eu/invoices/m1.json")
	require.NoError(err)
	return remote
}

// testRemote counts remote mutation calls and signals completed ones, so
// tests wait on propagation instead of sleeping
type testRemote struct {
	icatalog.ICatalog
	mu            sync.Mutex
	registerCalls int
	dropCalls     int
	failRegister  error
	failDrop      error
	registered    chan qnames.QName
	dropped       chan qnames.QName
}

func wrapRemote(cat icatalog.ICatalog) *testRemote {
	return &testRemote{
		ICatalog:   cat,
		registered: make(chan qnames.QName, 64),
		dropped:    make(chan qnames.QName, 64),
	}
}

func (c *testRemote) RegisterTable(ctx context.Context, name qnames.QName, metadataLocation string) (icatalog.ITableHandle, error) {
	c.mu.Lock()
	c.registerCalls++
	fail := c.failRegister
	c.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	handle, err := c.ICatalog.RegisterTable(ctx, name, metadataLocation)
	if err == nil {
		select {
		case c.registered <- name:
		default:
		}
	}
	return handle, err
}

func (c *testRemote) DropTable(ctx context.Context, name qnames.QName) error {
	c.mu.Lock()
	c.dropCalls++
	fail := c.failDrop
	c.mu.Unlock()
	if fail != nil {
		return fail
	}
	err := c.ICatalog.DropTable(ctx, name)
	if err == nil {
		select {
		case c.dropped <- name:
		default:
		}
	}
	return err
}

func (c *testRemote) setFailRegister(err error) {
	c.mu.Lock()
	c.failRegister = err
	c.mu.Unlock()
}

func (c *testRemote) setFailDrop(err error) {
	c.mu.Lock()
	c.failDrop = err
	c.mu.Unlock()
}

func (c *testRemote) calls() (register, drop int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registerCalls, c.dropCalls
}

func waitName(t *testing.T, ch chan qnames.QName) qnames.QName {
	t.Helper()
	select {
	case name := <-ch:
		return name
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for propagation")
		return qnames.NullQName
	}
}

func metricValue(metrics imetrics.IMetrics, name, catalog string) (value float64) {
	_ = metrics.List(func(metric imetrics.IMetric, metricValue float64) error {
		if metric.Name() == name && metric.Catalog() == catalog {
			value = metricValue
		}
		return nil
	})
	return value
}

func TestBasicUsage(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	remote := newRemote(t)
	wrapped := wrapRemote(remote)
	metrics := imetrics.Provide()

	m, err := Provide(ctx, wrapped, Params{Name: "wh", Metrics: metrics})
	require.NoError(err)
	defer m.Close()

	sales := qnames.MustParse("sales")
	orders := qnames.MustParse("sales.orders")
	reports := qnames.MustParse("sales.reports")

	t.Run("snapshot is complete", func(t *testing.T) {
		require.Equal([]qnames.QName{qnames.MustParse("hr"), sales, qnames.MustParse("sales.eu")}, m.SchemaNames())
		require.True(m.NamespaceExists(sales))
		require.False(m.NamespaceExists(qnames.MustParse("unknown")))

		names, err := m.TableNames(sales)
		require.NoError(err)
		require.Equal([]qnames.QName{orders}, names)

		names, err = m.TableNames(qnames.MustParse("hr"))
		require.NoError(err)
		require.Empty(names)

		require.True(m.TableExists(orders))
		require.Equal(2.0, metricValue(metrics, snapshotTablesTotal, "wh"))
		require.Equal(3.0, metricValue(metrics, snapshotNamespacesTotal, "wh"))
	})

	t.Run("handles are shared with the remote load", func(t *testing.T) {
		loaded, err := wrapped.LoadTable(ctx, orders)
		require.NoError(err)
		mirrored, ok := m.Table(orders)
		require.True(ok)
		require.Same(loaded, mirrored)
	})

	var handle icatalog.ITableHandle

	t.Run("register is readable at once, propagated in background", func(t *testing.T) {
		handle = icatalog.NewTableHandle(reports, "s3://wh/sales/reports/m1.json", icatalog.TableStats{})
		stored, err := m.RegisterTable(reports, handle)
		require.NoError(err)
		require.Same(handle, stored)

		got, ok := m.Table(reports)
		require.True(ok)
		require.Same(handle, got)
		require.True(m.TableExists(reports))

		require.Equal(reports, waitName(t, wrapped.registered))
		remoteHandle, err := wrapped.LoadTable(ctx, reports)
		require.NoError(err)
		require.Equal("s3://wh/sales/reports/m1.json", remoteHandle.MetadataLocation())
		register, _ := wrapped.calls()
		require.Equal(1, register)
	})

	t.Run("deregister is symmetric", func(t *testing.T) {
		removed, err := m.DeregisterTable(reports)
		require.NoError(err)
		require.Same(handle, removed)

		_, ok := m.Table(reports)
		require.False(ok)
		require.False(m.TableExists(reports))
		names, err := m.TableNames(sales)
		require.NoError(err)
		require.NotContains(names, reports)

		require.Equal(reports, waitName(t, wrapped.dropped))
		_, err = wrapped.LoadTable(ctx, reports)
		require.ErrorIs(err, icatalog.ErrTableNotFound)
	})
}

func TestRegisterTable(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	remote := newRemote(t)
	wrapped := wrapRemote(remote)
	m, err := Provide(ctx, wrapped, Params{Name: "wh"})
	require.NoError(err)
	defer m.Close()

	sales := qnames.MustParse("sales")
	orders := qnames.MustParse("sales.orders")

	t.Run("re-registration replaces the prior handle", func(t *testing.T) {
		before, err := m.TableNames(sales)
		require.NoError(err)

		next := icatalog.NewTableHandle(orders, "s3://wh/sales/orders/m2.json", icatalog.TableStats{})
		stored, err := m.RegisterTable(orders, next)
		require.NoError(err)
		require.Same(next, stored)

		got, ok := m.Table(orders)
		require.True(ok)
		require.Same(next, got)

		after, err := m.TableNames(sales)
		require.NoError(err)
		require.Equal(before, after)

		// the remote already has the table, the propagation outcome is tolerated
		require.Eventually(func() bool {
			register, _ := wrapped.calls()
			return register == 1
		}, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("namespace qualification is required", func(t *testing.T) {
		name := qnames.MustParse("orders")
		_, err := m.RegisterTable(name, icatalog.NewTableHandle(name, "s3://x", icatalog.TableStats{}))
		require.ErrorIs(err, qnames.ErrMalformedName)
	})

	t.Run("unknown parent namespace", func(t *testing.T) {
		name := qnames.MustParse("missing.orders")
		_, err := m.RegisterTable(name, icatalog.NewTableHandle(name, "s3://x", icatalog.TableStats{}))
		require.ErrorIs(err, icatalog.ErrNamespaceNotFound)

		// nothing changed, no partial insert
		require.False(m.TableExists(name))
		require.False(m.NamespaceExists(qnames.MustParse("missing")))
		require.Equal([]qnames.QName{qnames.MustParse("hr"), sales, qnames.MustParse("sales.eu")}, m.SchemaNames())
	})

	t.Run("parent is a table", func(t *testing.T) {
		name := qnames.MustParse("sales.orders.part")
		_, err := m.RegisterTable(name, icatalog.NewTableHandle(name, "s3://x", icatalog.TableStats{}))
		require.ErrorIs(err, ErrNotANamespace)
		require.False(m.TableExists(name))
	})

	t.Run("target is a namespace", func(t *testing.T) {
		name := qnames.MustParse("sales.eu")
		_, err := m.RegisterTable(name, icatalog.NewTableHandle(name, "s3://x", icatalog.TableStats{}))
		require.ErrorIs(err, ErrNotATable)
		require.True(m.NamespaceExists(name))
	})

	t.Run("handle name must match", func(t *testing.T) {
		name := qnames.MustParse("sales.mismatch")
		_, err := m.RegisterTable(name, icatalog.NewTableHandle(orders, "s3://x", icatalog.TableStats{}))
		require.ErrorIs(err, ErrHandleNameMismatch)
		require.False(m.TableExists(name))
	})

	t.Run("nil handle panics", func(t *testing.T) {
		require.Panics(func() { _, _ = m.RegisterTable(qnames.MustParse("sales.nils"), nil) })
	})
}

func TestDeregisterTable(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	m, err := Provide(ctx, wrapRemote(newRemote(t)), Params{Name: "wh"})
	require.NoError(err)
	defer m.Close()

	t.Run("unknown table", func(t *testing.T) {
		_, err := m.DeregisterTable(qnames.MustParse("sales.unknown"))
		require.ErrorIs(err, icatalog.ErrTableNotFound)
	})

	t.Run("namespace is not a table", func(t *testing.T) {
		_, err := m.DeregisterTable(qnames.MustParse("sales.eu"))
		require.ErrorIs(err, ErrNotATable)
		require.True(m.NamespaceExists(qnames.MustParse("sales.eu")))
	})
}

func TestTableNames(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	m, err := Provide(ctx, wrapRemote(newRemote(t)), Params{Name: "wh"})
	require.NoError(err)
	defer m.Close()

	t.Run("unknown namespace", func(t *testing.T) {
		_, err := m.TableNames(qnames.MustParse("unknown"))
		require.ErrorIs(err, icatalog.ErrNamespaceNotFound)
	})

	t.Run("table is not a namespace", func(t *testing.T) {
		_, err := m.TableNames(qnames.MustParse("sales.orders"))
		require.ErrorIs(err, ErrNotANamespace)
	})

	t.Run("child namespaces are not tables", func(t *testing.T) {
		names, err := m.TableNames(qnames.MustParse("sales"))
		require.NoError(err)
		require.Equal([]qnames.QName{qnames.MustParse("sales.orders")}, names)
		require.False(m.TableExists(qnames.MustParse("sales.eu")))
	})
}

func TestConcurrentRegistrations(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	m, err := Provide(ctx, wrapRemote(newRemote(t)), Params{Name: "wh", PropagationQueueSize: 1024})
	require.NoError(err)
	defer m.Close()

	hr := qnames.MustParse("hr")
	const goroutines = 64

	errs := make(chan error, goroutines)
	wg := sync.WaitGroup{}
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name, err := hr.Append(fmt.Sprintf("table%02d", i))
			if err == nil {
				_, err = m.RegisterTable(name, icatalog.NewTableHandle(name, fmt.Sprintf("s3://wh/hr/t%02d.json", i), icatalog.TableStats{}))
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(err)
	}

	names, err := m.TableNames(hr)
	require.NoError(err)
	require.Len(names, goroutines)
	seen := make(map[qnames.QName]struct{})
	for _, name := range names {
		require.True(m.TableExists(name))
		seen[name] = struct{}{}
	}
	require.Len(seen, goroutines)
}

func TestReferentialCompleteness(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	m, err := Provide(ctx, wrapRemote(newRemote(t)), Params{Name: "wh", PropagationQueueSize: 4096})
	require.NoError(err)
	defer m.Close()

	namespaces := []qnames.QName{qnames.MustParse("sales"), qnames.MustParse("sales.eu"), qnames.MustParse("hr")}
	leaves := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}

	// fixed seed keeps the scenario reproducible
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		ns := namespaces[rnd.Intn(len(namespaces))]
		name, err := ns.Append(leaves[rnd.Intn(len(leaves))])
		require.NoError(err)
		if rnd.Intn(2) == 0 {
			_, err = m.RegisterTable(name, icatalog.NewTableHandle(name, "s3://wh/"+name.String(), icatalog.TableStats{}))
			require.NoError(err)
		} else {
			_, err = m.DeregisterTable(name)
			if err != nil {
				require.ErrorIs(err, icatalog.ErrTableNotFound)
			}
		}
	}

	// every listed relation resolves, every resolvable relation is listed
	for _, ns := range namespaces {
		names, err := m.TableNames(ns)
		require.NoError(err)
		listed := make(map[qnames.QName]struct{}, len(names))
		for _, name := range names {
			require.True(m.TableExists(name))
			listed[name] = struct{}{}
		}
		for _, leaf := range leaves {
			name, err := ns.Append(leaf)
			require.NoError(err)
			if m.TableExists(name) {
				require.Contains(listed, name)
			}
		}
	}
}

func TestProvide_CatalogUnavailable(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	t.Run("listing fails", func(t *testing.T) {
		m, err := Provide(ctx, &downRemote{}, Params{Name: "wh"})
		require.ErrorIs(err, ErrCatalogUnavailable)
		require.Nil(m)
	})

	t.Run("table load fails", func(t *testing.T) {
		m, err := Provide(ctx, &flakyRemote{ICatalog: newRemote(t)}, Params{Name: "wh"})
		require.ErrorIs(err, ErrCatalogUnavailable)
		require.Nil(m)
	})

	t.Run("name listed as namespace and table", func(t *testing.T) {
		remote := newRemote(t)
		_, err := remote.RegisterTable(ctx, qnames.MustParse("sales.eu"), "s3://wh/ambiguous.json")
		require.NoError(err)

		m, err := Provide(ctx, remote, Params{Name: "wh"})
		require.ErrorIs(err, ErrCatalogUnavailable)
		require.Nil(m)
	})
}

type downRemote struct{ icatalog.ICatalog }

func (c *downRemote) ListNamespaces(context.Context, qnames.QName) ([]qnames.QName, error) {
	return nil, errors.New("gone fishing")
}

type flakyRemote struct{ icatalog.ICatalog }

func (c *flakyRemote) LoadTable(context.Context, qnames.QName) (icatalog.ITableHandle, error) {
	return nil, errors.New("gone fishing")
}

func TestMirrorClosed(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	m, err := Provide(ctx, wrapRemote(newRemote(t)), Params{Name: "wh"})
	require.NoError(err)

	m.Close()
	m.Close() // idempotent

	name := qnames.MustParse("sales.late")
	_, err = m.RegisterTable(name, icatalog.NewTableHandle(name, "s3://x", icatalog.TableStats{}))
	require.ErrorIs(err, ErrMirrorClosed)
	_, err = m.DeregisterTable(qnames.MustParse("sales.orders"))
	require.ErrorIs(err, ErrMirrorClosed)
	m.Reconcile() // no-op after close

	// reads keep working
	require.True(m.TableExists(qnames.MustParse("sales.orders")))
	require.Len(m.SchemaNames(), 3)
}
