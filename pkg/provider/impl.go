/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package provider

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/mirror"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type catalogProvider struct {
	mirror  mirror.IMirror
	schemas *lru.Cache[qnames.QName, ISchemaProvider]
}

var _ ICatalogProvider = (*catalogProvider)(nil)

func (p *catalogProvider) SchemaNames() []string {
	namespaces := p.mirror.SchemaNames()
	res := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		res = append(res, ns.String())
	}
	return res
}

func (p *catalogProvider) Schema(name string) (ISchemaProvider, bool) {
	ns, err := qnames.Parse(name)
	if err != nil {
		return nil, false
	}
	if schema, ok := p.schemas.Get(ns); ok {
		return schema, true
	}
	if !p.mirror.NamespaceExists(ns) {
		return nil, false
	}
	// views are stateless, a racing duplicate is as good as the cached one
	schema := ISchemaProvider(&schemaProvider{mirror: p.mirror, ns: ns})
	p.schemas.Add(ns, schema)
	return schema, true
}

type schemaProvider struct {
	mirror mirror.IMirror
	ns     qnames.QName
}

var _ ISchemaProvider = (*schemaProvider)(nil)

func (s *schemaProvider) Namespace() qnames.QName { return s.ns }

func (s *schemaProvider) TableNames() []string {
	names, err := s.mirror.TableNames(s.ns)
	if err != nil {
		// notest: the namespace set never shrinks
		return nil
	}
	res := make([]string, 0, len(names))
	for _, name := range names {
		res = append(res, name.Entity())
	}
	return res
}

func (s *schemaProvider) Table(name string) (icatalog.ITableHandle, bool) {
	qn, err := s.ns.Append(name)
	if err != nil {
		return nil, false
	}
	return s.mirror.Table(qn)
}

func (s *schemaProvider) TableExists(name string) bool {
	_, ok := s.Table(name)
	return ok
}

func (s *schemaProvider) RegisterTable(name string, handle icatalog.ITableHandle) (icatalog.ITableHandle, error) {
	qn, err := s.ns.Append(name)
	if err != nil {
		return nil, err
	}
	return s.mirror.RegisterTable(qn, handle)
}

func (s *schemaProvider) DeregisterTable(name string) (icatalog.ITableHandle, error) {
	qn, err := s.ns.Append(name)
	if err != nil {
		return nil, err
	}
	return s.mirror.DeregisterTable(qn)
}
