/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package icatalog

import (
	"github.com/voedger/catalogmirror/pkg/qnames"
)

// TableStats is planner input, not an accounting record.
// Exact == false means the numbers are estimates or unknown.
type TableStats struct {
	NumRows   int64
	SizeBytes int64
	Exact     bool
}

// TableHandle is the plain immutable ITableHandle used by the drivers
type TableHandle struct {
	name             qnames.QName
	metadataLocation string
	stats            TableStats
}

func NewTableHandle(name qnames.QName, metadataLocation string, stats TableStats) ITableHandle {
	return &TableHandle{
		name:             name,
		metadataLocation: metadataLocation,
		stats:            stats,
	}
}

func (h *TableHandle) Name() qnames.QName       { return h.name }
func (h *TableHandle) MetadataLocation() string { return h.metadataLocation }
func (h *TableHandle) Stats() TableStats        { return h.stats }
