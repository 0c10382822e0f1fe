/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

// Package provider adapts the mirror to the query engine catalog shape:
// flat schema views addressed by dotted namespace paths, tables addressed
// by leaf names within a view.
package provider

import (
	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type ICatalogProvider interface {
	// SchemaNames renders every mirrored namespace, sorted
	//
	// @ConcurrentAccess
	SchemaNames() []string

	// Schema returns the view of the dotted namespace path.
	// ok == false when the path is malformed or not a mirrored namespace.
	//
	// @ConcurrentAccess
	Schema(name string) (schema ISchemaProvider, ok bool)
}

// ISchemaProvider is a stateless view over one namespace, all calls
// delegate to the mirror
type ISchemaProvider interface {
	Namespace() qnames.QName

	// TableNames lists relation leaf names, sorted
	//
	// @ConcurrentAccess
	TableNames() []string

	// @ConcurrentAccess
	Table(name string) (handle icatalog.ITableHandle, ok bool)

	// @ConcurrentAccess
	TableExists(name string) bool

	// RegisterTable joins the leaf name with the namespace and registers in
	// the mirror.
	// returns qnames.ErrMalformedName and the mirror registration sentinels
	//
	// @ConcurrentAccess
	RegisterTable(name string, handle icatalog.ITableHandle) (icatalog.ITableHandle, error)

	// DeregisterTable joins the leaf name with the namespace and deregisters
	// from the mirror.
	// returns qnames.ErrMalformedName and the mirror deregistration sentinels
	//
	// @ConcurrentAccess
	DeregisterTable(name string) (icatalog.ITableHandle, error)
}
