// SPDX-License-Identifier: MIT

// Package config loads the movie info service configuration.
//
// Precedence is ENV > YAML file > defaults. The file is parsed strictly:
// unknown keys and trailing documents are errors. A Holder keeps the active
// configuration and reloads it when the file changes or on demand.
package config
