/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package mem

import (
	"context"
	"fmt"
	"sync"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type memCatalog struct {
	lock       sync.RWMutex
	namespaces map[qnames.QName]map[string]string
	tables     map[qnames.QName]icatalog.ITableHandle
}

var _ icatalog.ICatalog = (*memCatalog)(nil)
var _ icatalog.ICatalogAdmin = (*memCatalog)(nil)

func (c *memCatalog) ListNamespaces(_ context.Context, parent qnames.QName) ([]qnames.QName, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if !parent.IsNull() {
		if _, ok := c.namespaces[parent]; !ok {
			return nil, fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, parent)
		}
	}
	res := qnames.QNames{}
	for ns := range c.namespaces {
		if ns.Namespace() == parent {
			res.Add(ns)
		}
	}
	return res, nil
}

func (c *memCatalog) ListTables(_ context.Context, namespace qnames.QName) ([]qnames.QName, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if _, ok := c.namespaces[namespace]; !ok {
		return nil, fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, namespace)
	}
	res := qnames.QNames{}
	for name := range c.tables {
		if name.Namespace() == namespace {
			res.Add(name)
		}
	}
	return res, nil
}

func (c *memCatalog) LoadTable(_ context.Context, name qnames.QName) (icatalog.ITableHandle, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	h, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", icatalog.ErrTableNotFound, name)
	}
	return h, nil
}

func (c *memCatalog) RegisterTable(_ context.Context, name qnames.QName, metadataLocation string) (icatalog.ITableHandle, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.namespaces[name.Namespace()]; !ok {
		return nil, fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, name.Namespace())
	}
	if _, ok := c.tables[name]; ok {
		return nil, fmt.Errorf("%w: %s", icatalog.ErrTableAlreadyExists, name)
	}
	h := icatalog.NewTableHandle(name, metadataLocation, icatalog.TableStats{})
	c.tables[name] = h
	return h, nil
}

func (c *memCatalog) DropTable(_ context.Context, name qnames.QName) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.tables[name]; !ok {
		return fmt.Errorf("%w: %s", icatalog.ErrTableNotFound, name)
	}
	delete(c.tables, name)
	return nil
}

func (c *memCatalog) CreateNamespace(_ context.Context, namespace qnames.QName, props map[string]string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.namespaces[namespace]; ok {
		return fmt.Errorf("%w: %s", icatalog.ErrNamespaceAlreadyExists, namespace)
	}
	if parent := namespace.Namespace(); !parent.IsNull() {
		if _, ok := c.namespaces[parent]; !ok {
			return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, parent)
		}
	}
	if props == nil {
		props = map[string]string{}
	}
	c.namespaces[namespace] = props
	return nil
}

func (c *memCatalog) DropNamespace(_ context.Context, namespace qnames.QName) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.namespaces[namespace]; !ok {
		return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, namespace)
	}
	for name := range c.tables {
		if name.Namespace() == namespace {
			return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotEmpty, namespace)
		}
	}
	for ns := range c.namespaces {
		if ns.Namespace() == namespace {
			return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotEmpty, namespace)
		}
	}
	delete(c.namespaces, namespace)
	return nil
}

// PutTableStats replaces the table handle with one carrying the given stats.
// Keeps handles immutable, readers holding the old handle see the old stats.
func (c *memCatalog) PutTableStats(name qnames.QName, stats icatalog.TableStats) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	h, ok := c.tables[name]
	if !ok {
		return fmt.Errorf("%w: %s", icatalog.ErrTableNotFound, name)
	}
	c.tables[name] = icatalog.NewTableHandle(name, h.MetadataLocation(), stats)
	return nil
}
