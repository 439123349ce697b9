// SPDX-License-Identifier: MIT

package daemon

import "errors"

// ErrMissingServer is returned by Run when the App has no HTTP server.
var ErrMissingServer = errors.New("daemon: http server is required")
