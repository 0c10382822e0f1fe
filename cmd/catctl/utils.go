/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package main

import (
	"context"
	"errors"
	"time"

	"github.com/voedger/catalogmirror/pkg/icatalog/rest"
	"github.com/voedger/catalogmirror/pkg/mirror"
	"github.com/voedger/catalogmirror/pkg/qnames"
)

type catctlParams struct {
	URL     string
	Prefix  string
	Token   string
	Timeout time.Duration
}

// mirrorSession owns one mirror built over the REST catalog addressed by
// the flags. close drains the propagation queue and reports the failure the
// hook caught, so mutation commands exit non-zero when the remote half was
// lost.
type mirrorSession struct {
	m       mirror.IMirror
	propErr error
}

func openMirror(ctx context.Context, params *catctlParams) (*mirrorSession, error) {
	if params.URL == "" {
		return nil, errors.New("--url is required")
	}
	remote, err := rest.Provide(rest.Params{
		BaseURL:        params.URL,
		Prefix:         params.Prefix,
		Token:          params.Token,
		RequestTimeout: params.Timeout,
	})
	if err != nil {
		return nil, err
	}

	session := &mirrorSession{}
	session.m, err = mirror.Provide(ctx, remote, mirror.Params{
		Name:           "catctl",
		RequestTimeout: params.Timeout,
		OnPropagationFailure: func(op mirror.PropagationOp, name qnames.QName, err error) {
			session.propErr = err
		},
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *mirrorSession) close() error {
	s.m.Close()
	return s.propErr
}
