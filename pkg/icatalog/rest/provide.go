/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package rest

import (
	"errors"
	"net/http"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/voedger/catalogmirror/pkg/icatalog"
)

func Provide(params Params) (icatalog.ICatalog, error) {
	if params.BaseURL == "" {
		return nil, errors.New("params.BaseURL can not be empty")
	}
	baseURL := strings.TrimSuffix(params.BaseURL, "/") + routePrefix
	if params.Prefix != "" {
		baseURL += "/" + params.Prefix
	}
	client := params.Client
	if client == nil {
		client = &http.Client{Timeout: params.requestTimeout()}
	}
	stats, err := lru.New[string, icatalog.TableStats](params.metadataCacheSize())
	if err != nil {
		// notest
		return nil, err
	}
	return &restCatalog{
		params:  params,
		baseURL: baseURL,
		client:  client,
		stats:   stats,
	}, nil
}
