// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manifest formats, named after their file extensions.
const (
	FormatCUE  Format = "cue"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for a file extension no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported manifest format")

type (
	// Format identifies a manifest encoding.
	Format string

	decodeFunc func(name string, data []byte) (*Manifest, error)
)

var decoders = map[Format]decodeFunc{
	FormatCUE:  decodeCUE,
	FormatTOML: decodeTOML,
	FormatHCL:  decodeHCL,
	FormatJSON: decodeJSON,
}

// Formats returns the supported formats in lookup order.
func Formats() []Format {
	return []Format{FormatCUE, FormatTOML, FormatHCL, FormatJSON}
}

// FormatOf returns the format for path's extension.
func FormatOf(path string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if _, ok := decoders[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return f, nil
}

// Decode parses data in the given format. name is used in error messages.
func Decode(format Format, name string, data []byte) (*Manifest, error) {
	dec, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return dec(name, data)
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Decode(format, path, data)
}

// Find resolves name to a manifest file. An existing path is returned as is;
// otherwise name is tried in every search directory, with each supported
// extension appended when name has none.
func Find(name string, searchPaths []string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = candidates[:0]
		for _, f := range Formats() {
			candidates = append(candidates, name+"."+string(f))
		}
	}

	if filepath.IsAbs(name) {
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				return c, nil
			}
		}
		return "", fmt.Errorf("manifest %q: %w", name, os.ErrNotExist)
	}

	dirs := append([]string{"."}, searchPaths...)
	for _, dir := range dirs {
		for _, c := range candidates {
			p := filepath.Join(dir, c)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("manifest %q not found in %s: %w", name, strings.Join(dirs, ", "), os.ErrNotExist)
}
