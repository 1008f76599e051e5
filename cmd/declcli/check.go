// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check <manifest>",
		Short: "Validate a manifest without running it",
		Long: `Validate a manifest without running it.

The manifest is decoded against its schema and declared on a builder, so
syntax strings, duplicate names, defaults, validator references and script
syntax are all checked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.checkManifest(cmd.Context(), flags, args[0])
		},
	}
}

func (a *App) checkManifest(ctx context.Context, flags *rootFlags, name string) error {
	sess, err := a.newSession(ctx, flags)
	if err != nil {
		return a.fail(nil, flags, err)
	}
	defer sess.close()

	b, path, err := a.declare(sess, name)
	if err != nil {
		return a.fail(sess, flags, err)
	}

	table := b.Table()
	fmt.Fprintf(a.stdout, "%s %s: %d command(s) declared\n",
		SuccessStyle.Render("✓"), path, table.Len())
	if sess.verbose {
		for _, c := range table.Commands() {
			fmt.Fprintf(a.stdout, "  %s\n", VerboseStyle.Render(displayName(c.Name)))
		}
	}
	return nil
}

// displayName shows the synthetic top-level command as "(top level)".
func displayName(name string) string {
	if name == "" {
		return "(top level)"
	}
	return name
}
