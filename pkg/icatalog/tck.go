/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package icatalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/voedger/catalogmirror/pkg/qnames"
)

// TechnologyCompatibilityKit test suit
//
// Every driver must pass it. Namespace names are randomized so the kit can
// run repeatedly against persistent catalogs.
func TechnologyCompatibilityKit(t *testing.T, cat ICatalog) {
	admin, ok := cat.(ICatalogAdmin)
	require.True(t, ok, "driver must implement ICatalogAdmin")
	t.Run("TestCatalog_Namespaces", func(t *testing.T) { testCatalog_Namespaces(t, cat, admin) })
	t.Run("TestCatalog_Tables", func(t *testing.T) { testCatalog_Tables(t, cat, admin) })
	t.Run("TestCatalog_NotFound", func(t *testing.T) { testCatalog_NotFound(t, cat) })
}

func tckNS() qnames.QName {
	return qnames.MustParse("tck-" + uuid.NewString())
}

func testCatalog_Namespaces(t *testing.T, cat ICatalog, admin ICatalogAdmin) {
	require := require.New(t)
	ctx := context.Background()

	root := tckNS()
	require.NoError(admin.CreateNamespace(ctx, root, map[string]string{"owner": "tck"}))
	require.ErrorIs(admin.CreateNamespace(ctx, root, nil), ErrNamespaceAlreadyExists)

	top, err := cat.ListNamespaces(ctx, qnames.NullQName)
	require.NoError(err)
	require.Contains(top, root)

	child, err := root.Append("inner")
	require.NoError(err)
	require.NoError(admin.CreateNamespace(ctx, child, nil))

	kids, err := cat.ListNamespaces(ctx, root)
	require.NoError(err)
	require.Equal([]qnames.QName{child}, kids)

	top, err = cat.ListNamespaces(ctx, qnames.NullQName)
	require.NoError(err)
	require.NotContains(top, child)

	// nested namespace needs an existing parent
	orphan := qnames.MustParse(root.String() + ".nope.deep")
	require.ErrorIs(admin.CreateNamespace(ctx, orphan, nil), ErrNamespaceNotFound)

	_, err = cat.ListNamespaces(ctx, tckNS())
	require.ErrorIs(err, ErrNamespaceNotFound)

	require.ErrorIs(admin.DropNamespace(ctx, root), ErrNamespaceNotEmpty)
	require.NoError(admin.DropNamespace(ctx, child))
	require.NoError(admin.DropNamespace(ctx, root))
	require.ErrorIs(admin.DropNamespace(ctx, root), ErrNamespaceNotFound)
}

func testCatalog_Tables(t *testing.T, cat ICatalog, admin ICatalogAdmin) {
	require := require.New(t)
	ctx := context.Background()

	ns := tckNS()
	require.NoError(admin.CreateNamespace(ctx, ns, nil))

	tables, err := cat.ListTables(ctx, ns)
	require.NoError(err)
	require.Empty(tables)

	name, err := ns.Append("orders")
	require.NoError(err)
	const location = "s3://warehouse/orders/metadata/00000-tck.metadata.json"

	h, err := cat.RegisterTable(ctx, name, location)
	require.NoError(err)
	require.Equal(name, h.Name())
	require.Equal(location, h.MetadataLocation())

	tables, err = cat.ListTables(ctx, ns)
	require.NoError(err)
	require.Equal([]qnames.QName{name}, tables)

	loaded, err := cat.LoadTable(ctx, name)
	require.NoError(err)
	require.Equal(name, loaded.Name())
	require.Equal(location, loaded.MetadataLocation())

	_, err = cat.RegisterTable(ctx, name, location)
	require.ErrorIs(err, ErrTableAlreadyExists)

	homeless, err := tckNS().Append("orders")
	require.NoError(err)
	_, err = cat.RegisterTable(ctx, homeless, location)
	require.ErrorIs(err, ErrNamespaceNotFound)

	require.ErrorIs(admin.DropNamespace(ctx, ns), ErrNamespaceNotEmpty)

	require.NoError(cat.DropTable(ctx, name))
	_, err = cat.LoadTable(ctx, name)
	require.ErrorIs(err, ErrTableNotFound)
	require.ErrorIs(cat.DropTable(ctx, name), ErrTableNotFound)

	require.NoError(admin.DropNamespace(ctx, ns))
}

func testCatalog_NotFound(t *testing.T, cat ICatalog) {
	require := require.New(t)
	ctx := context.Background()

	unknown, err := tckNS().Append("orders")
	require.NoError(err)

	_, err = cat.ListTables(ctx, unknown.Namespace())
	require.ErrorIs(err, ErrNamespaceNotFound)

	_, err = cat.LoadTable(ctx, unknown)
	require.ErrorIs(err, ErrTableNotFound)

	require.ErrorIs(cat.DropTable(ctx, unknown), ErrTableNotFound)
}
