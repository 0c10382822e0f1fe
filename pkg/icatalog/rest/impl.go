/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/untillpro/goutils/logger"
	"github.com/valyala/bytebufferpool"

	"github.com/voedger/catalogmirror/pkg/icatalog"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type restCatalog struct {
	params  Params
	baseURL string
	client  *http.Client

	// metadata documents never mutate, entries never go stale
	stats *lru.Cache[string, icatalog.TableStats]
}

var _ icatalog.ICatalog = (*restCatalog)(nil)
var _ icatalog.ICatalogAdmin = (*restCatalog)(nil)

type listNamespacesResponse struct {
	Namespaces [][]string `json:"namespaces"`
}

type createNamespaceRequest struct {
	Namespace  []string          `json:"namespace"`
	Properties map[string]string `json:"properties"`
}

type tableIdentifier struct {
	Namespace []string `json:"namespace"`
	Name      string   `json:"name"`
}

type listTablesResponse struct {
	Identifiers []tableIdentifier `json:"identifiers"`
}

type registerTableRequest struct {
	Name             string `json:"name"`
	MetadataLocation string `json:"metadata-location"`
}

type loadTableResult struct {
	MetadataLocation string          `json:"metadata-location"`
	Metadata         json.RawMessage `json:"metadata"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type tableMetadata struct {
	CurrentSnapshotID int64           `json:"current-snapshot-id"`
	Snapshots         []tableSnapshot `json:"snapshots"`
}

type tableSnapshot struct {
	SnapshotID int64             `json:"snapshot-id"`
	Summary    map[string]string `json:"summary"`
}

func nsPath(ns qnames.QName) string {
	return url.PathEscape(strings.Join(ns.Parts(), namespaceSeparator))
}

func (c *restCatalog) do(ctx context.Context, method, route string, query url.Values, body interface{}) (*http.Response, error) {
	u := c.baseURL + route
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	var bodyReader io.Reader
	if body != nil {
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			// notest
			return nil, err
		}
		bodyReader = bytes.NewReader(buf.B)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}
	if c.params.Token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+c.params.Token)
	}
	return c.client.Do(req)
}

func errMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		// notest
		return ""
	}
	errResp := errorResponse{}
	if json.Unmarshal(data, &errResp) == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return string(data)
}

// maps well-known statuses to catalog sentinels, anything else is unexpected
func statusErr(resp *http.Response, kinds map[int]error) error {
	if kind, ok := kinds[resp.StatusCode]; ok {
		return fmt.Errorf("%w: %s", kind, errMessage(resp))
	}
	return fmt.Errorf("%w %d: %s", ErrUnexpectedStatusCode, resp.StatusCode, errMessage(resp))
}

func (c *restCatalog) ListNamespaces(ctx context.Context, parent qnames.QName) ([]qnames.QName, error) {
	query := url.Values{}
	if !parent.IsNull() {
		query.Set("parent", strings.Join(parent.Parts(), namespaceSeparator))
	}
	resp, err := c.do(ctx, http.MethodGet, "/namespaces", query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr(resp, map[int]error{http.StatusNotFound: icatalog.ErrNamespaceNotFound})
	}
	listResp := listNamespacesResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, err
	}
	res := qnames.QNames{}
	for _, parts := range listResp.Namespaces {
		ns, err := qnames.New(parts...)
		if err != nil {
			return nil, err
		}
		res.Add(ns)
	}
	return res, nil
}

func (c *restCatalog) ListTables(ctx context.Context, namespace qnames.QName) ([]qnames.QName, error) {
	resp, err := c.do(ctx, http.MethodGet, "/namespaces/"+nsPath(namespace)+"/tables", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr(resp, map[int]error{http.StatusNotFound: icatalog.ErrNamespaceNotFound})
	}
	listResp := listTablesResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, err
	}
	res := qnames.QNames{}
	for _, id := range listResp.Identifiers {
		name, err := qnames.New(append(append([]string{}, id.Namespace...), id.Name)...)
		if err != nil {
			return nil, err
		}
		res.Add(name)
	}
	return res, nil
}

func (c *restCatalog) LoadTable(ctx context.Context, name qnames.QName) (icatalog.ITableHandle, error) {
	resp, err := c.do(ctx, http.MethodGet, "/namespaces/"+nsPath(name.Namespace())+"/tables/"+url.PathEscape(name.Entity()), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr(resp, map[int]error{http.StatusNotFound: icatalog.ErrTableNotFound})
	}
	result := loadTableResult{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return icatalog.NewTableHandle(name, result.MetadataLocation, c.resolveStats(ctx, result.MetadataLocation, result.Metadata)), nil
}

func (c *restCatalog) RegisterTable(ctx context.Context, name qnames.QName, metadataLocation string) (icatalog.ITableHandle, error) {
	resp, err := c.do(ctx, http.MethodPost, "/namespaces/"+nsPath(name.Namespace())+"/register", nil,
		registerTableRequest{Name: name.Entity(), MetadataLocation: metadataLocation})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, statusErr(resp, map[int]error{
			http.StatusNotFound: icatalog.ErrNamespaceNotFound,
			http.StatusConflict: icatalog.ErrTableAlreadyExists,
		})
	}
	result := loadTableResult{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if result.MetadataLocation == "" {
		result.MetadataLocation = metadataLocation
	}
	return icatalog.NewTableHandle(name, result.MetadataLocation, c.resolveStats(ctx, result.MetadataLocation, result.Metadata)), nil
}

func (c *restCatalog) DropTable(ctx context.Context, name qnames.QName) error {
	resp, err := c.do(ctx, http.MethodDelete, "/namespaces/"+nsPath(name.Namespace())+"/tables/"+url.PathEscape(name.Entity()), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusErr(resp, map[int]error{http.StatusNotFound: icatalog.ErrTableNotFound})
	}
	return nil
}

func (c *restCatalog) CreateNamespace(ctx context.Context, namespace qnames.QName, props map[string]string) error {
	if props == nil {
		props = map[string]string{}
	}
	resp, err := c.do(ctx, http.MethodPost, "/namespaces", nil,
		createNamespaceRequest{Namespace: namespace.Parts(), Properties: props})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusErr(resp, map[int]error{
			http.StatusNotFound: icatalog.ErrNamespaceNotFound,
			http.StatusConflict: icatalog.ErrNamespaceAlreadyExists,
		})
	}
	return nil
}

func (c *restCatalog) DropNamespace(ctx context.Context, namespace qnames.QName) error {
	resp, err := c.do(ctx, http.MethodDelete, "/namespaces/"+nsPath(namespace), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusErr(resp, map[int]error{
			http.StatusNotFound: icatalog.ErrNamespaceNotFound,
			http.StatusConflict: icatalog.ErrNamespaceNotEmpty,
		})
	}
	return nil
}

// resolveStats extracts planner stats from the table metadata document.
//
// The document is identified by its immutable location, a hit in the lru
// cache skips both the fetch and the parse. Stats are best effort, any
// problem here must not fail the table load.
func (c *restCatalog) resolveStats(ctx context.Context, location string, inline json.RawMessage) icatalog.TableStats {
	if location == "" {
		return icatalog.TableStats{}
	}
	if stats, ok := c.stats.Get(location); ok {
		return stats
	}
	// an absent document travels as an explicit JSON null
	data := []byte(inline)
	if string(bytes.TrimSpace(data)) == "null" {
		data = nil
	}
	if len(data) == 0 && (strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")) {
		data = c.fetchMetadata(ctx, location)
	}
	if len(data) == 0 {
		return icatalog.TableStats{}
	}
	stats, err := parseStats(data)
	if err != nil {
		if logger.IsVerbose() {
			logger.Verbose("can't parse table metadata at", location, ":", err.Error())
		}
		return icatalog.TableStats{}
	}
	c.stats.Add(location, stats)
	return stats
}

func (c *restCatalog) fetchMetadata(ctx context.Context, location string) []byte {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		// notest
		return nil
	}
	if c.params.Token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+c.params.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warning("can't fetch table metadata at", location, ":", err.Error())
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warning("can't fetch table metadata at", location, ": status", resp.StatusCode)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		// notest
		return nil
	}
	return data
}

func parseStats(data []byte) (stats icatalog.TableStats, err error) {
	md := tableMetadata{}
	if err := json.Unmarshal(data, &md); err != nil {
		return stats, err
	}
	for _, snapshot := range md.Snapshots {
		if snapshot.SnapshotID != md.CurrentSnapshotID {
			continue
		}
		rows, err := strconv.ParseInt(snapshot.Summary[summaryTotalRecords], 10, 64)
		if err != nil {
			return stats, err
		}
		// size is optional in summaries
		size, _ := strconv.ParseInt(snapshot.Summary[summaryTotalFileSize], 10, 64)
		return icatalog.TableStats{NumRows: rows, SizeBytes: size, Exact: true}, nil
	}
	return stats, nil
}
