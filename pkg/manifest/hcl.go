// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HCL layout:
//
//	name    = "cats"
//	version = "1.0.0"
//
//	global {
//	  option "-v, --verbose" {}
//	}
//
//	command "search" {
//	  aliases = ["s"]
//	  argument "<...query>" {
//	    validator { builtin = "STRING" }
//	  }
//	  action { script = "echo $DECLCLI_ARG_QUERY" }
//	  on "actions:after" { script = "echo done" }
//	}
type (
	hclFile struct {
		Name     string       `hcl:"name,optional"`
		Version  string       `hcl:"version,optional"`
		Global   *hclScope    `hcl:"global,block"`
		Commands []hclCommand `hcl:"command,block"`
	}

	hclScope struct {
		Arguments []hclArgument `hcl:"argument,block"`
		Options   []hclOption   `hcl:"option,block"`
		Actions   []hclAction   `hcl:"action,block"`
		Events    []hclEvent    `hcl:"on,block"`
	}

	hclCommand struct {
		Name        string        `hcl:"name,label"`
		Description string        `hcl:"description,optional"`
		Aliases     []string      `hcl:"aliases,optional"`
		Arguments   []hclArgument `hcl:"argument,block"`
		Options     []hclOption   `hcl:"option,block"`
		Actions     []hclAction   `hcl:"action,block"`
		Events      []hclEvent    `hcl:"on,block"`
	}

	hclArgument struct {
		Syntax      string         `hcl:"syntax,label"`
		Description string         `hcl:"description,optional"`
		Validators  []ValidatorRef `hcl:"validator,block"`
		Default     hcl.Expression `hcl:"default,optional"`
	}

	hclOption struct {
		Syntax      string         `hcl:"syntax,label"`
		Description string         `hcl:"description,optional"`
		Required    bool           `hcl:"required,optional"`
		Multi       bool           `hcl:"multi,optional"`
		Immediate   bool           `hcl:"immediate,optional"`
		Validators  []ValidatorRef `hcl:"validator,block"`
		Default     hcl.Expression `hcl:"default,optional"`
	}

	hclAction struct {
		Script string `hcl:"script"`
		Dir    string `hcl:"dir,optional"`
	}

	hclEvent struct {
		Name   string `hcl:"name,label"`
		Script string `hcl:"script"`
		Dir    string `hcl:"dir,optional"`
	}
)

func decodeHCL(name string, data []byte) (*Manifest, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL manifest %s: %w", name, diags)
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL manifest %s: %w", name, diags)
	}

	m := &Manifest{Name: raw.Name, Version: raw.Version}
	if raw.Global != nil {
		s, err := raw.Global.scope()
		if err != nil {
			return nil, fmt.Errorf("%s: global: %w", name, err)
		}
		m.Global = &s
	}
	for _, c := range raw.Commands {
		s, err := (&hclScope{Arguments: c.Arguments, Options: c.Options, Actions: c.Actions, Events: c.Events}).scope()
		if err != nil {
			return nil, fmt.Errorf("%s: command %q: %w", name, c.Name, err)
		}
		m.Commands = append(m.Commands, Command{
			Name:        c.Name,
			Description: c.Description,
			Aliases:     c.Aliases,
			Arguments:   s.Arguments,
			Options:     s.Options,
			Actions:     s.Actions,
			Events:      s.Events,
		})
	}
	return m, nil
}

func (h *hclScope) scope() (Scope, error) {
	var s Scope
	for _, a := range h.Arguments {
		def, err := evalDefault(a.Default)
		if err != nil {
			return Scope{}, fmt.Errorf("argument %q: %w", a.Syntax, err)
		}
		s.Arguments = append(s.Arguments, Argument{
			Syntax:      a.Syntax,
			Description: a.Description,
			Validators:  a.Validators,
			Default:     def,
		})
	}
	for _, o := range h.Options {
		def, err := evalDefault(o.Default)
		if err != nil {
			return Scope{}, fmt.Errorf("option %q: %w", o.Syntax, err)
		}
		s.Options = append(s.Options, Option{
			Syntax:      o.Syntax,
			Description: o.Description,
			Required:    o.Required,
			Multi:       o.Multi,
			Immediate:   o.Immediate,
			Validators:  o.Validators,
			Default:     def,
		})
	}
	for _, a := range h.Actions {
		s.Actions = append(s.Actions, Action{Script: a.Script, Dir: a.Dir})
	}
	for _, ev := range h.Events {
		if s.Events == nil {
			s.Events = make(map[string][]Action)
		}
		s.Events[ev.Name] = append(s.Events[ev.Name], Action{Script: ev.Script, Dir: ev.Dir})
	}
	return s, nil
}

// evalDefault evaluates a default expression without variables. A missing
// attribute evaluates to null and yields no default.
func evalDefault(expr hcl.Expression) (any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return ctyToNative(val)
}

// ctyToNative converts scalars and sequences; objects are not valid defaults.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("default number: %w", err)
		}
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported default type %s", ty.FriendlyName())
	}
}
