/*
 * Copyright (c) 2023-present unTill Pro, Ltd.
 */

package cached

import "errors"

var ErrAdminNotSupported = errors.New("wrapped catalog does not support namespace management")
