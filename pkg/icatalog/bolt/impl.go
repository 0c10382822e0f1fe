/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 */

package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type boltCatalog struct {
	db *bolt.DB
}

var _ icatalog.ICatalog = (*boltCatalog)(nil)
var _ icatalog.ICatalogAdmin = (*boltCatalog)(nil)

type namespaceRecord struct {
	Props map[string]string `json:"props"`
}

type tableRecord struct {
	ID               string              `json:"id"`
	MetadataLocation string              `json:"metadataLocation"`
	Stats            icatalog.TableStats `json:"stats"`
	CreatedAtMs      int64               `json:"createdAtMs"`
}

func initDB(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(namespacesBucketName)); err != nil {
			// notest
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(tablesBucketName)); err != nil {
			// notest
			return err
		}
		return nil
	})
}

func buckets(tx *bolt.Tx) (namespaces, tables *bolt.Bucket, err error) {
	if namespaces = tx.Bucket([]byte(namespacesBucketName)); namespaces == nil {
		// notest
		return nil, nil, ErrNamespacesBucketNotFound
	}
	if tables = tx.Bucket([]byte(tablesBucketName)); tables == nil {
		// notest
		return nil, nil, ErrTablesBucketNotFound
	}
	return namespaces, tables, nil
}

func (c *boltCatalog) ListNamespaces(_ context.Context, parent qnames.QName) ([]qnames.QName, error) {
	res := qnames.QNames{}
	err := c.db.View(func(tx *bolt.Tx) error {
		namespaces, _, err := buckets(tx)
		if err != nil {
			// notest
			return err
		}
		if !parent.IsNull() && namespaces.Get([]byte(parent.String())) == nil {
			return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, parent)
		}
		return namespaces.ForEach(func(k, v []byte) error {
			ns, err := qnames.Parse(string(k))
			if err != nil {
				// notest
				return err
			}
			if ns.Namespace() == parent {
				res.Add(ns)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *boltCatalog) ListTables(_ context.Context, namespace qnames.QName) ([]qnames.QName, error) {
	res := qnames.QNames{}
	err := c.db.View(func(tx *bolt.Tx) error {
		namespaces, tables, err := buckets(tx)
		if err != nil {
			// notest
			return err
		}
		if namespaces.Get([]byte(namespace.String())) == nil {
			return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, namespace)
		}
		return tables.ForEach(func(k, v []byte) error {
			name, err := qnames.Parse(string(k))
			if err != nil {
				// notest
				return err
			}
			if name.Namespace() == namespace {
				res.Add(name)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *boltCatalog) LoadTable(_ context.Context, name qnames.QName) (icatalog.ITableHandle, error) {
	var rec tableRecord
	err := c.db.View(func(tx *bolt.Tx) error {
		_, tables, err := buckets(tx)
		if err != nil {
			// notest
			return err
		}
		data := tables.Get([]byte(name.String()))
		if data == nil {
			return fmt.Errorf("%w: %s", icatalog.ErrTableNotFound, name)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return icatalog.NewTableHandle(name, rec.MetadataLocation, rec.Stats), nil
}

func (c *boltCatalog) RegisterTable(_ context.Context, name qnames.QName, metadataLocation string) (icatalog.ITableHandle, error) {
	rec := tableRecord{
		ID:               uuid.NewString(),
		MetadataLocation: metadataLocation,
		CreatedAtMs:      time.Now().UnixMilli(),
	}
	err := c.db.Update(func(tx *bolt.Tx) error {
		namespaces, tables, err := buckets(tx)
		if err != nil {
			// notest
			return err
		}
		if namespaces.Get([]byte(name.Namespace().String())) == nil {
			return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, name.Namespace())
		}
		key := []byte(name.String())
		if tables.Get(key) != nil {
			return fmt.Errorf("%w: %s", icatalog.ErrTableAlreadyExists, name)
		}
		data, err := json.Marshal(rec)
		if err != nil {
			// notest
			return err
		}
		return tables.Put(key, data)
	})
	if err != nil {
		return nil, err
	}
	return icatalog.NewTableHandle(name, metadataLocation, rec.Stats), nil
}

func (c *boltCatalog) DropTable(_ context.Context, name qnames.QName) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		_, tables, err := buckets(tx)
		if err != nil {
			// notest
			return err
		}
		key := []byte(name.String())
		if tables.Get(key) == nil {
			return fmt.Errorf("%w: %s", icatalog.ErrTableNotFound, name)
		}
		return tables.Delete(key)
	})
}

func (c *boltCatalog) CreateNamespace(_ context.Context, namespace qnames.QName, props map[string]string) error {
	if props == nil {
		props = map[string]string{}
	}
	data, err := json.Marshal(namespaceRecord{Props: props})
	if err != nil {
		// notest
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		namespaces, _, err := buckets(tx)
		if err != nil {
			// notest
			return err
		}
		key := []byte(namespace.String())
		if namespaces.Get(key) != nil {
			return fmt.Errorf("%w: %s", icatalog.ErrNamespaceAlreadyExists, namespace)
		}
		if parent := namespace.Namespace(); !parent.IsNull() {
			if namespaces.Get([]byte(parent.String())) == nil {
				return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, parent)
			}
		}
		return namespaces.Put(key, data)
	})
}

func (c *boltCatalog) DropNamespace(_ context.Context, namespace qnames.QName) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		namespaces, tables, err := buckets(tx)
		if err != nil {
			// notest
			return err
		}
		key := []byte(namespace.String())
		if namespaces.Get(key) == nil {
			return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, namespace)
		}
		notEmpty := func(k []byte) bool {
			qn, err := qnames.Parse(string(k))
			return err == nil && qn.Namespace() == namespace
		}
		empty := true
		_ = tables.ForEach(func(k, v []byte) error {
			if notEmpty(k) {
				empty = false
			}
			return nil
		})
		_ = namespaces.ForEach(func(k, v []byte) error {
			if notEmpty(k) {
				empty = false
			}
			return nil
		})
		if !empty {
			return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotEmpty, namespace)
		}
		return namespaces.Delete(key)
	})
}

// Close releases the underlying database file
func (c *boltCatalog) Close() error {
	return c.db.Close()
}
