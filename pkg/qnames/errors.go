/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 */

package qnames

import "errors"

var ErrMalformedName = errors.New("malformed qualified name")
