// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// Manifests and host configuration go through the same three steps: compile
// the schema, compile the user document and unify it with the schema root
// definition, then validate and decode into a Go struct.
//
//	//go:embed manifest_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[Manifest](schema, data, "#Manifest",
//	    cueutil.WithFilename("cli.cue"))
//	if err != nil {
//	    return nil, err // carries file and field path
//	}
//	return res.Value, nil
package cueutil
