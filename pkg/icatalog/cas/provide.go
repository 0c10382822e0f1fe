/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package cas

import (
	"errors"

	"github.com/voedger/catalogmirror/pkg/icatalog"
)

func Provide(casPar CassandraParamsType) (cat icatalog.ICatalog, err error) {
	if len(casPar.KeyspaceWithReplication) == 0 {
		return nil, errors.New("casPar.KeyspaceWithReplication can not be empty")
	}
	return newCasCatalog(casPar)
}
