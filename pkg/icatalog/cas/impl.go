/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package cas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type casCatalog struct {
	session  *gocql.Session
	keyspace string
}

var _ icatalog.ICatalog = (*casCatalog)(nil)
var _ icatalog.ICatalogAdmin = (*casCatalog)(nil)

func newCasCatalog(params CassandraParamsType) (*casCatalog, error) {
	cluster := gocql.NewCluster(strings.Split(params.Hosts, ",")...)
	if params.Port > 0 {
		cluster.Port = params.Port
	}
	cluster.Consistency = gocql.Quorum
	cluster.CQLVersion = params.cqlVersion()
	if params.ProtoVersion > 0 {
		cluster.ProtoVersion = params.ProtoVersion
	}
	if params.NumRetries > 0 {
		cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: params.NumRetries}
	}
	if params.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{Username: params.Username, Password: params.Pwd}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("can't connect to cluster %w", err)
	}

	c := &casCatalog{session: session, keyspace: params.keyspace()}
	if err := c.prepareKeyspace(params.KeyspaceWithReplication); err != nil {
		session.Close()
		return nil, err
	}
	return c, nil
}

func (c *casCatalog) prepareKeyspace(replication string) error {
	if err := c.session.Query(fmt.Sprintf(
		"create keyspace if not exists %s with replication = %s", c.keyspace, replication)).
		Exec(); err != nil {
		return fmt.Errorf("can't create keyspace %s: %w", c.keyspace, err)
	}
	if err := c.session.Query(fmt.Sprintf(
		`create table if not exists %s.namespaces (name text primary key, props map<text, text>)`, c.keyspace)).
		Exec(); err != nil {
		return err
	}
	return c.session.Query(fmt.Sprintf(
		`create table if not exists %s.tables (
			namespace text,
			name text,
			id uuid,
			metadata_location text,
			num_rows bigint,
			size_bytes bigint,
			exact boolean,
			created_at timestamp,
			primary key (namespace, name))`, c.keyspace)).
		Exec()
}

func (c *casCatalog) namespaceExists(ctx context.Context, namespace qnames.QName) (bool, error) {
	var name string
	err := c.session.Query(fmt.Sprintf("select name from %s.namespaces where name = ?", c.keyspace),
		namespace.String()).
		WithContext(ctx).
		Scan(&name)
	if errors.Is(err, gocql.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *casCatalog) ListNamespaces(ctx context.Context, parent qnames.QName) ([]qnames.QName, error) {
	if !parent.IsNull() {
		ok, err := c.namespaceExists(ctx, parent)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, parent)
		}
	}
	res := qnames.QNames{}
	iter := c.session.Query(fmt.Sprintf("select name from %s.namespaces", c.keyspace)).
		WithContext(ctx).
		Iter()
	var name string
	for iter.Scan(&name) {
		ns, err := qnames.Parse(name)
		if err != nil {
			// notest
			continue
		}
		if ns.Namespace() == parent {
			res.Add(ns)
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *casCatalog) ListTables(ctx context.Context, namespace qnames.QName) ([]qnames.QName, error) {
	ok, err := c.namespaceExists(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, namespace)
	}
	res := qnames.QNames{}
	iter := c.session.Query(fmt.Sprintf("select name from %s.tables where namespace = ?", c.keyspace),
		namespace.String()).
		WithContext(ctx).
		Iter()
	var leaf string
	for iter.Scan(&leaf) {
		name, err := namespace.Append(leaf)
		if err != nil {
			// notest
			continue
		}
		res.Add(name)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *casCatalog) LoadTable(ctx context.Context, name qnames.QName) (icatalog.ITableHandle, error) {
	var (
		location string
		stats    icatalog.TableStats
	)
	err := c.session.Query(fmt.Sprintf(
		"select metadata_location, num_rows, size_bytes, exact from %s.tables where namespace = ? and name = ?", c.keyspace),
		name.Namespace().String(), name.Entity()).
		WithContext(ctx).
		Scan(&location, &stats.NumRows, &stats.SizeBytes, &stats.Exact)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", icatalog.ErrTableNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return icatalog.NewTableHandle(name, location, stats), nil
}

func (c *casCatalog) RegisterTable(ctx context.Context, name qnames.QName, metadataLocation string) (icatalog.ITableHandle, error) {
	ok, err := c.namespaceExists(ctx, name.Namespace())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, name.Namespace())
	}
	applied, err := c.session.Query(fmt.Sprintf(
		"insert into %s.tables (namespace, name, id, metadata_location, num_rows, size_bytes, exact, created_at) values (?, ?, ?, ?, 0, 0, false, ?) if not exists", c.keyspace),
		name.Namespace().String(), name.Entity(), gocql.TimeUUID(), metadataLocation, time.Now()).
		WithContext(ctx).
		MapScanCAS(map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%w: %s", icatalog.ErrTableAlreadyExists, name)
	}
	return icatalog.NewTableHandle(name, metadataLocation, icatalog.TableStats{}), nil
}

func (c *casCatalog) DropTable(ctx context.Context, name qnames.QName) error {
	applied, err := c.session.Query(fmt.Sprintf(
		"delete from %s.tables where namespace = ? and name = ? if exists", c.keyspace),
		name.Namespace().String(), name.Entity()).
		WithContext(ctx).
		MapScanCAS(map[string]interface{}{})
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: %s", icatalog.ErrTableNotFound, name)
	}
	return nil
}

func (c *casCatalog) CreateNamespace(ctx context.Context, namespace qnames.QName, props map[string]string) error {
	if parent := namespace.Namespace(); !parent.IsNull() {
		ok, err := c.namespaceExists(ctx, parent)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, parent)
		}
	}
	if props == nil {
		props = map[string]string{}
	}
	applied, err := c.session.Query(fmt.Sprintf(
		"insert into %s.namespaces (name, props) values (?, ?) if not exists", c.keyspace),
		namespace.String(), props).
		WithContext(ctx).
		MapScanCAS(map[string]interface{}{})
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: %s", icatalog.ErrNamespaceAlreadyExists, namespace)
	}
	return nil
}

func (c *casCatalog) DropNamespace(ctx context.Context, namespace qnames.QName) error {
	ok, err := c.namespaceExists(ctx, namespace)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotFound, namespace)
	}

	var leaf string
	err = c.session.Query(fmt.Sprintf("select name from %s.tables where namespace = ? limit 1", c.keyspace),
		namespace.String()).
		WithContext(ctx).
		Scan(&leaf)
	if err != nil && !errors.Is(err, gocql.ErrNotFound) {
		return err
	}
	if err == nil {
		return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotEmpty, namespace)
	}

	children, err := c.ListNamespaces(ctx, namespace)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return fmt.Errorf("%w: %s", icatalog.ErrNamespaceNotEmpty, namespace)
	}

	return c.session.Query(fmt.Sprintf("delete from %s.namespaces where name = ?", c.keyspace),
		namespace.String()).
		WithContext(ctx).
		Exec()
}

// Close releases the cluster session
func (c *casCatalog) Close() error {
	c.session.Close()
	return nil
}
