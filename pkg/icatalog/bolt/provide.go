/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 */

package bolt

import (
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/voedger/catalogmirror/pkg/icatalog"
)

// Provide opens (or creates) the catalog database under params.DBDir
func Provide(params ParamsType) (icatalog.ICatalog, error) {
	if err := os.MkdirAll(params.DBDir, fileModeDir); err != nil {
		// notest
		return nil, err
	}
	db, err := bolt.Open(filepath.Join(params.DBDir, dbFileName), fileModeDB, bolt.DefaultOptions)
	if err != nil {
		return nil, err
	}
	if err := initDB(db); err != nil {
		// notest
		db.Close()
		return nil, err
	}
	return &boltCatalog{db: db}, nil
}
