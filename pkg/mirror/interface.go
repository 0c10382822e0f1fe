/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

import (
	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

// IMirror is the synchronous, concurrently readable image of a remote catalog.
//
// The image is complete from construction: reads never touch the remote
// catalog. Mutations apply locally first and propagate to the remote catalog
// in background, propagation failures are observable through metrics, the
// log and the Params.OnPropagationFailure hook.
type IMirror interface {
	// SchemaNames lists all mirrored namespaces, sorted
	//
	// @ConcurrentAccess
	SchemaNames() []qnames.QName

	// @ConcurrentAccess
	NamespaceExists(namespace qnames.QName) bool

	// TableNames lists relations of the namespace, sorted. Child namespaces
	// are not included.
	// returns icatalog.ErrNamespaceNotFound, ErrNotANamespace
	//
	// @ConcurrentAccess
	TableNames(namespace qnames.QName) ([]qnames.QName, error)

	// Table returns the shared table handle.
	// ok == false when the name is unknown or denotes a namespace.
	//
	// @ConcurrentAccess
	Table(name qnames.QName) (handle icatalog.ITableHandle, ok bool)

	// TableExists reports whether name denotes a relation. A known namespace
	// name is not a table.
	//
	// @ConcurrentAccess
	TableExists(name qnames.QName) bool

	// RegisterTable makes the table readable immediately and enqueues remote
	// registration. Registering an already registered name replaces the prior
	// handle, no deregister is required. Returns the stored handle.
	// returns qnames.ErrMalformedName, icatalog.ErrNamespaceNotFound,
	// ErrNotANamespace, ErrNotATable, ErrHandleNameMismatch, ErrMirrorClosed.
	// The image is unchanged on any error.
	//
	// @ConcurrentAccess
	RegisterTable(name qnames.QName, handle icatalog.ITableHandle) (icatalog.ITableHandle, error)

	// DeregisterTable removes the table immediately and enqueues remote drop.
	// Returns the removed handle.
	// returns icatalog.ErrTableNotFound, ErrNotATable, ErrMirrorClosed
	//
	// @ConcurrentAccess
	DeregisterTable(name qnames.QName) (icatalog.ITableHandle, error)

	// Reconcile runs one synchronous drift check against the remote catalog:
	// relations missing remotely are propagated again, relations unknown
	// locally are logged. See Params.ReconcileSchedule for the periodic run.
	//
	// @ConcurrentAccess
	Reconcile()

	// Close stops the background workers after draining the propagation
	// queue. Further mutations fail with ErrMirrorClosed, reads keep working.
	Close()
}
