// SPDX-License-Identifier: MPL-2.0

// Package config handles declcli host configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/declcli/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/declcli/config.cue on macOS, %APPDATA%\declcli\config.cue
// on Windows), falling back to ./config.cue. Every key can be overridden through a
// DECLCLI_* environment variable, e.g. DECLCLI_LOG_LEVEL=debug.
//
// Files are validated against the embedded #Config schema (config_schema.cue).
package config
