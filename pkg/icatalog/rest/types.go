/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package rest

import (
	"net/http"
	"time"
)

type Params struct {
	// e.g. "https://catalog.example.com:8181"
	BaseURL string

	// warehouse prefix of the versioned route, optional
	Prefix string

	// bearer token, sent as is, optional
	Token string

	// a client with RequestTimeout is used when nil
	Client *http.Client

	RequestTimeout time.Duration

	// entries of the metadata document cache, keyed by metadata location
	MetadataCacheSize int
}

func (p Params) requestTimeout() time.Duration {
	if p.RequestTimeout == 0 {
		return defaultRequestTimeout
	}
	return p.RequestTimeout
}

func (p Params) metadataCacheSize() int {
	if p.MetadataCacheSize <= 0 {
		return defaultMetadataCacheSize
	}
	return p.MetadataCacheSize
}
