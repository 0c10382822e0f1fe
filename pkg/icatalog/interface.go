/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package icatalog

import (
	"context"

	"github.com/voedger/catalogmirror/pkg/qnames"
)

// implemented by a certain driver (mem, bolt, cas, rest)
type ICatalog interface {
	// lists direct child namespaces of parent
	// parent qnames.NullQName lists top-level namespaces
	// returns ErrNamespaceNotFound for an unknown non-null parent
	ListNamespaces(ctx context.Context, parent qnames.QName) ([]qnames.QName, error)

	// lists tables of the given namespace
	// returns ErrNamespaceNotFound
	ListTables(ctx context.Context, namespace qnames.QName) ([]qnames.QName, error)

	// returns the handle of an existing table
	// returns ErrTableNotFound
	LoadTable(ctx context.Context, name qnames.QName) (ITableHandle, error)

	// registers an existing table by its metadata location
	// returns ErrNamespaceNotFound, ErrTableAlreadyExists
	RegisterTable(ctx context.Context, name qnames.QName, metadataLocation string) (ITableHandle, error)

	// removes the table from the catalog, metadata files are left intact
	// returns ErrTableNotFound
	DropTable(ctx context.Context, name qnames.QName) error
}

// namespace management, not consumed by the mirror
type ICatalogAdmin interface {
	// parent namespace of a nested name must exist
	// returns ErrNamespaceNotFound, ErrNamespaceAlreadyExists
	CreateNamespace(ctx context.Context, namespace qnames.QName, props map[string]string) error

	// returns ErrNamespaceNotFound, ErrNamespaceNotEmpty
	DropNamespace(ctx context.Context, namespace qnames.QName) error
}

// ITableHandle describes one table well enough for query planning.
//
// Handles are immutable and safe to alias between goroutines. The same
// handle instance is shared by everyone who resolved the same table.
//
// @ConcurrentAccess
type ITableHandle interface {
	Name() qnames.QName

	// MetadataLocation points at the current metadata document.
	// Metadata documents never mutate, a table change writes a new location.
	MetadataLocation() string

	Stats() TableStats
}
