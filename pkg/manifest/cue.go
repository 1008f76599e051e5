// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"

	"github.com/invowk/declcli/pkg/cueutil"
)

//go:embed manifest_schema.cue
var cueSchema []byte

func decodeCUE(name string, data []byte) (*Manifest, error) {
	res, err := cueutil.ParseAndDecode[Manifest](cueSchema, data, "#Manifest", cueutil.WithFilename(name))
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}
