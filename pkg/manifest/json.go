// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const jsonSchemaURL = "https://github.com/invowk/declcli/manifest.schema.json"

var (
	//go:embed manifest.schema.json
	jsonSchemaBytes []byte

	compiledSchema = sync.OnceValues(compileJSONSchema)
)

func compileJSONSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonSchemaBytes))
	if err != nil {
		return nil, fmt.Errorf("internal error: failed to read manifest schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(jsonSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("internal error: failed to add manifest schema: %w", err)
	}
	return c.Compile(jsonSchemaURL)
}

func decodeJSON(name string, data []byte) (*Manifest, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid JSON: %w", name, err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &m, nil
}
