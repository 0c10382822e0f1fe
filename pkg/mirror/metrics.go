/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mirror

const (
	registeredTotal         = "catalogmirror_mirror_registered_total"
	deregisteredTotal       = "catalogmirror_mirror_deregistered_total"
	snapshotNamespacesTotal = "catalogmirror_mirror_snapshot_namespaces_total"
	snapshotTablesTotal     = "catalogmirror_mirror_snapshot_tables_total"
	snapshotSeconds         = "catalogmirror_mirror_snapshot_seconds"

	propagationOkTotal       = "catalogmirror_mirror_propagation_ok_total"
	propagationFailuresTotal = "catalogmirror_mirror_propagation_failures_total"
	propagationDroppedTotal  = "catalogmirror_mirror_propagation_dropped_total"

	reconcileRunsTotal  = "catalogmirror_mirror_reconcile_runs_total"
	reconcileDriftTotal = "catalogmirror_mirror_reconcile_drift_total"
)
