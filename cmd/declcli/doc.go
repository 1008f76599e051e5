// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the declcli host commands.
//
// declcli loads a manifest (CUE, TOML, HCL or JSON), declares it on a
// builder and hands the remaining process arguments to the engine. Script
// actions run in the virtual shell from internal/runtime.
package cmd
