/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package cached

import (
	"context"
	"errors"
	"time"

	"github.com/erni27/imcache"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/imetrics"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type cachedCatalog struct {
	catalog icatalog.ICatalog
	cache   *imcache.Cache[qnames.QName, icatalog.ITableHandle]
	ttl     time.Duration

	/* metrics */
	mLoadTotal           *float64
	mLoadCachedTotal     *float64
	mLoadSeconds         *float64
	mRegisterTotal       *float64
	mRegisterSeconds     *float64
	mDropTotal           *float64
	mDropSeconds         *float64
	mListNamespacesTotal *float64
	mListTablesTotal     *float64
}

var _ icatalog.ICatalog = (*cachedCatalog)(nil)
var _ icatalog.ICatalogAdmin = (*cachedCatalog)(nil)

func newCachedCatalog(ttl time.Duration, catalog icatalog.ICatalog, metrics imetrics.IMetrics, catalogName string) *cachedCatalog {
	return &cachedCatalog{
		catalog:              catalog,
		cache:                imcache.New[qnames.QName, icatalog.ITableHandle](),
		ttl:                  ttl,
		mLoadTotal:           metrics.MetricAddr(loadTotal, catalogName),
		mLoadCachedTotal:     metrics.MetricAddr(loadCachedTotal, catalogName),
		mLoadSeconds:         metrics.MetricAddr(loadSeconds, catalogName),
		mRegisterTotal:       metrics.MetricAddr(registerTotal, catalogName),
		mRegisterSeconds:     metrics.MetricAddr(registerSeconds, catalogName),
		mDropTotal:           metrics.MetricAddr(dropTotal, catalogName),
		mDropSeconds:         metrics.MetricAddr(dropSeconds, catalogName),
		mListNamespacesTotal: metrics.MetricAddr(listNamespacesTotal, catalogName),
		mListTablesTotal:     metrics.MetricAddr(listTablesTotal, catalogName),
	}
}

func (c *cachedCatalog) put(name qnames.QName, h icatalog.ITableHandle) {
	if c.ttl > 0 {
		c.cache.Set(name, h, imcache.WithExpiration(c.ttl))
	} else {
		c.cache.Set(name, h, imcache.WithNoExpiration())
	}
}

// listings pass through, they must observe remote change
func (c *cachedCatalog) ListNamespaces(ctx context.Context, parent qnames.QName) ([]qnames.QName, error) {
	imetrics.AddFloat64(c.mListNamespacesTotal, 1.0)
	return c.catalog.ListNamespaces(ctx, parent)
}

func (c *cachedCatalog) ListTables(ctx context.Context, namespace qnames.QName) ([]qnames.QName, error) {
	imetrics.AddFloat64(c.mListTablesTotal, 1.0)
	return c.catalog.ListTables(ctx, namespace)
}

func (c *cachedCatalog) LoadTable(ctx context.Context, name qnames.QName) (h icatalog.ITableHandle, err error) {
	start := time.Now()
	defer func() {
		imetrics.AddFloat64(c.mLoadSeconds, time.Since(start).Seconds())
	}()
	imetrics.AddFloat64(c.mLoadTotal, 1.0)

	if h, ok := c.cache.Get(name); ok {
		imetrics.AddFloat64(c.mLoadCachedTotal, 1.0)
		return h, nil
	}
	h, err = c.catalog.LoadTable(ctx, name)
	if err != nil {
		return nil, err
	}
	c.put(name, h)
	return h, nil
}

func (c *cachedCatalog) RegisterTable(ctx context.Context, name qnames.QName, metadataLocation string) (h icatalog.ITableHandle, err error) {
	start := time.Now()
	defer func() {
		imetrics.AddFloat64(c.mRegisterSeconds, time.Since(start).Seconds())
	}()
	imetrics.AddFloat64(c.mRegisterTotal, 1.0)

	h, err = c.catalog.RegisterTable(ctx, name, metadataLocation)
	if err != nil {
		return nil, err
	}
	c.put(name, h)
	return h, nil
}

func (c *cachedCatalog) DropTable(ctx context.Context, name qnames.QName) (err error) {
	start := time.Now()
	defer func() {
		imetrics.AddFloat64(c.mDropSeconds, time.Since(start).Seconds())
	}()
	imetrics.AddFloat64(c.mDropTotal, 1.0)

	err = c.catalog.DropTable(ctx, name)
	if err == nil || errors.Is(err, icatalog.ErrTableNotFound) {
		c.cache.Remove(name)
	}
	return err
}

func (c *cachedCatalog) CreateNamespace(ctx context.Context, namespace qnames.QName, props map[string]string) error {
	admin, ok := c.catalog.(icatalog.ICatalogAdmin)
	if !ok {
		return ErrAdminNotSupported
	}
	return admin.CreateNamespace(ctx, namespace, props)
}

func (c *cachedCatalog) DropNamespace(ctx context.Context, namespace qnames.QName) error {
	admin, ok := c.catalog.(icatalog.ICatalogAdmin)
	if !ok {
		return ErrAdminNotSupported
	}
	return admin.DropNamespace(ctx, namespace)
}
