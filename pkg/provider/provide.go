/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package provider

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/voedger/catalogmirror/pkg/mirror"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

const defaultSchemaCacheSize = 64

// Provide returns the engine-facing view of the mirror. schemaCacheSize
// bounds the cached schema views, 0 means default.
func Provide(m mirror.IMirror, schemaCacheSize int) ICatalogProvider {
	if schemaCacheSize <= 0 {
		schemaCacheSize = defaultSchemaCacheSize
	}
	schemas, err := lru.New[qnames.QName, ISchemaProvider](schemaCacheSize)
	if err != nil {
		// notest
		panic(err)
	}
	return &catalogProvider{mirror: m, schemas: schemas}
}
