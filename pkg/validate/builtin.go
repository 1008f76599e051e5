// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/invowk/declcli/pkg/decl"
)

// Built-in validator names.
const (
	NameString   = "STRING"
	NameNumber   = "NUMBER"
	NameBoolean  = "BOOLEAN"
	NameFilePath = "FILE_PATH"
)

var (
	// String requires string values.
	String decl.Validator = decl.ValidatorFunc(validateString)
	// Number accepts numeric strings and converts them to float64.
	Number decl.Validator = decl.ValidatorFunc(validateNumber)
	// Boolean accepts "true"/"false" in any case and converts them to bool.
	Boolean decl.Validator = decl.ValidatorFunc(validateBoolean)
	// FilePath requires a readable path, resolved against the working directory.
	FilePath decl.Validator = decl.ValidatorFunc(validateFilePath)
)

// elementFunc checks or converts a single scalar payload.
type elementFunc func(in decl.ValidatorInput, v decl.Value) (decl.Value, error)

// eachElement applies fn to the value, or to every item of a list.
func eachElement(in decl.ValidatorInput, fn elementFunc) decl.Result {
	if in.Value.IsList() {
		items := in.Value.Items()
		for i, item := range items {
			if item.IsMissing() {
				continue
			}
			converted, err := fn(in, item)
			if err != nil {
				return decl.Fail(err)
			}
			items[i] = converted
		}
		return decl.Continue(decl.ListValue(items...))
	}
	if in.Value.IsMissing() || in.Value.IsAbsent() {
		return decl.Keep()
	}
	converted, err := fn(in, in.Value)
	if err != nil {
		return decl.Fail(err)
	}
	return decl.Continue(converted)
}

func validateString(_ context.Context, in decl.ValidatorInput) decl.Result {
	return eachElement(in, func(in decl.ValidatorInput, v decl.Value) (decl.Value, error) {
		raw, _ := v.Scalar()
		if _, ok := raw.(string); !ok {
			return v, fmt.Errorf("%s must be a string", in.Subject())
		}
		return v, nil
	})
}

func validateNumber(_ context.Context, in decl.ValidatorInput) decl.Result {
	return eachElement(in, func(in decl.ValidatorInput, v decl.Value) (decl.Value, error) {
		raw, ok := v.Scalar()
		if !ok {
			return v, fmt.Errorf("%s must be a number", in.Subject())
		}
		switch n := raw.(type) {
		case float64:
			return v, nil
		case int:
			return decl.ScalarValue(float64(n)), nil
		case int64:
			return decl.ScalarValue(float64(n)), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return v, fmt.Errorf("%s must be a number, got %q", in.Subject(), n)
			}
			return decl.ScalarValue(f), nil
		default:
			return v, fmt.Errorf("%s must be a number", in.Subject())
		}
	})
}

func validateBoolean(_ context.Context, in decl.ValidatorInput) decl.Result {
	return eachElement(in, func(in decl.ValidatorInput, v decl.Value) (decl.Value, error) {
		if _, ok := v.Bool(); ok {
			return v, nil
		}
		raw, _ := v.Scalar()
		if s, ok := raw.(string); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return decl.ScalarValue(true), nil
			case "false":
				return decl.ScalarValue(false), nil
			}
		}
		return v, fmt.Errorf("%s must be 'true' or 'false', got %q", in.Subject(), v.String())
	})
}

func validateFilePath(_ context.Context, in decl.ValidatorInput) decl.Result {
	return eachElement(in, func(in decl.ValidatorInput, v decl.Value) (decl.Value, error) {
		raw, _ := v.Scalar()
		p, ok := raw.(string)
		if !ok || p == "" {
			return v, fmt.Errorf("%s must be a file path", in.Subject())
		}
		if err := checkReadable(p); err != nil {
			return v, fmt.Errorf("%s: %w", in.Subject(), err)
		}
		return v, nil
	})
}

// checkReadable resolves p against the working directory and opens it for reading.
func checkReadable(p string) error {
	if !filepath.IsAbs(p) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		p = filepath.Join(wd, p)
	}
	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("path %q is not readable", p)
	}
	return f.Close()
}
