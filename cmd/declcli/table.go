// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/declcli/pkg/decl"
)

type (
	tableJSON struct {
		Version  string        `json:"version,omitempty"`
		Commands []commandJSON `json:"commands"`
	}

	commandJSON struct {
		Name        string         `json:"name"`
		Description string         `json:"description,omitempty"`
		Aliases     []string       `json:"aliases,omitempty"`
		Arguments   []argumentJSON `json:"arguments,omitempty"`
		Options     []optionJSON   `json:"options,omitempty"`
		Actions     int            `json:"actions"`
	}

	argumentJSON struct {
		Syntax      string `json:"syntax"`
		Key         string `json:"key"`
		Description string `json:"description,omitempty"`
		Required    bool   `json:"required,omitempty"`
		Rest        bool   `json:"rest,omitempty"`
		Default     any    `json:"default,omitempty"`
	}

	optionJSON struct {
		Syntax      string `json:"syntax"`
		Key         string `json:"key"`
		Description string `json:"description,omitempty"`
		Required    bool   `json:"required,omitempty"`
		Multi       bool   `json:"multi,omitempty"`
		Immediate   bool   `json:"immediate,omitempty"`
		Default     any    `json:"default,omitempty"`
	}
)

func newTableCommand(app *App, flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "table <manifest>",
		Short: "Print the declaration table of a manifest",
		Long: `Print the declaration table of a manifest, sorted by command name.

Global arguments and options appear in every command they were merged into.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.printTable(cmd.Context(), flags, args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	return cmd
}

func (a *App) printTable(ctx context.Context, flags *rootFlags, name string, asJSON bool) error {
	sess, err := a.newSession(ctx, flags)
	if err != nil {
		return a.fail(nil, flags, err)
	}
	defer sess.close()

	b, _, err := a.declare(sess, name)
	if err != nil {
		return a.fail(sess, flags, err)
	}

	table := b.Table()
	if asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tableToJSON(table))
	}
	writeTable(a.stdout, table)
	return nil
}

func tableToJSON(t *decl.Table) tableJSON {
	out := tableJSON{Version: t.Version(), Commands: []commandJSON{}}
	for _, c := range t.Sorted() {
		cj := commandJSON{
			Name:        c.Name,
			Description: c.Description,
			Aliases:     c.Aliases,
			Actions:     len(c.Actions),
		}
		for i := range c.Arguments {
			arg := &c.Arguments[i]
			cj.Arguments = append(cj.Arguments, argumentJSON{
				Syntax:      arg.Syntax(),
				Key:         arg.APIName,
				Description: arg.Description,
				Required:    arg.Required,
				Rest:        arg.Rest,
				Default:     arg.Default.Interface(),
			})
		}
		for i := range c.Options {
			opt := &c.Options[i]
			cj.Options = append(cj.Options, optionJSON{
				Syntax:      opt.Syntax(),
				Key:         opt.Key(),
				Description: opt.Description,
				Required:    opt.Required,
				Multi:       opt.Multi,
				Immediate:   opt.Immediate,
				Default:     opt.Default.Interface(),
			})
		}
		out.Commands = append(out.Commands, cj)
	}
	return out
}

func writeTable(w io.Writer, t *decl.Table) {
	if v := t.Version(); v != "" {
		fmt.Fprintf(w, "%s %s\n\n", TitleStyle.Render("version"), v)
	}
	for _, c := range t.Sorted() {
		header := CmdStyle.Render(displayName(c.Name))
		if len(c.Aliases) > 0 {
			header += SubtitleStyle.Render(" (" + strings.Join(c.Aliases, ", ") + ")")
		}
		fmt.Fprintln(w, header)
		if c.Description != "" {
			fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render(c.Description))
		}
		for i := range c.Arguments {
			arg := &c.Arguments[i]
			fmt.Fprintf(w, "  %s%s\n", arg.Syntax(), describe(arg.Description, arg.Default))
		}
		for i := range c.Options {
			opt := &c.Options[i]
			var marks []string
			if opt.Required {
				marks = append(marks, "required")
			}
			if opt.Multi {
				marks = append(marks, "multi")
			}
			if opt.Immediate {
				marks = append(marks, "immediate")
			}
			line := opt.Syntax()
			if len(marks) > 0 {
				line += " " + WarningStyle.Render("["+strings.Join(marks, ", ")+"]")
			}
			fmt.Fprintf(w, "  %s%s\n", line, describe(opt.Description, opt.Default))
		}
		fmt.Fprintln(w)
	}
}

func describe(description string, def decl.Value) string {
	var parts []string
	if description != "" {
		parts = append(parts, description)
	}
	if def.Provided() {
		parts = append(parts, "default: "+def.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + VerboseStyle.Render(strings.Join(parts, "; "))
}
