/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

func TestBasicUsage(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	cat := Provide()
	admin := cat.(icatalog.ICatalogAdmin)

	require.NoError(admin.CreateNamespace(ctx, qnames.MustParse("sales"), nil))
	require.NoError(admin.CreateNamespace(ctx, qnames.MustParse("sales.eu"), nil))

	h, err := cat.RegisterTable(ctx, qnames.MustParse("sales.eu.orders"), "file:///wh/orders/m0.json")
	require.NoError(err)
	require.Equal(qnames.MustParse("sales.eu.orders"), h.Name())

	tables, err := cat.ListTables(ctx, qnames.MustParse("sales.eu"))
	require.NoError(err)
	require.Equal([]qnames.QName{qnames.MustParse("sales.eu.orders")}, tables)

	// the loaded handle is the registered one
	loaded, err := cat.LoadTable(ctx, qnames.MustParse("sales.eu.orders"))
	require.NoError(err)
	require.Same(h, loaded)
}

func TestTCK(t *testing.T) {
	icatalog.TechnologyCompatibilityKit(t, Provide())
}

func TestPutTableStats(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	cat := Provide().(*memCatalog)
	require.NoError(cat.CreateNamespace(ctx, qnames.MustParse("sales"), nil))

	name := qnames.MustParse("sales.orders")
	old, err := cat.RegisterTable(ctx, name, "file:///wh/orders/m0.json")
	require.NoError(err)
	require.Zero(old.Stats().NumRows)

	require.NoError(cat.PutTableStats(name, icatalog.TableStats{NumRows: 42, SizeBytes: 1024, Exact: true}))

	fresh, err := cat.LoadTable(ctx, name)
	require.NoError(err)
	require.Equal(int64(42), fresh.Stats().NumRows)
	require.True(fresh.Stats().Exact)

	// the old handle is immutable
	require.Zero(old.Stats().NumRows)

	require.ErrorIs(cat.PutTableStats(qnames.MustParse("sales.nope"), icatalog.TableStats{}), icatalog.ErrTableNotFound)
}
