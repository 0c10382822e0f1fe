/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package rest

import "errors"

var ErrUnexpectedStatusCode = errors.New("unexpected status code")
