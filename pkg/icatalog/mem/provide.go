/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mem

import (
	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

// Provide makes an empty in-memory catalog
func Provide() icatalog.ICatalog {
	return &memCatalog{
		namespaces: make(map[qnames.QName]map[string]string),
		tables:     make(map[qnames.QName]icatalog.ITableHandle),
	}
}
