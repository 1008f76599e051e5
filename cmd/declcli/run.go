// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/declcli/internal/issue"
	"github.com/invowk/declcli/internal/runtime"
	"github.com/invowk/declcli/pkg/builder"
	"github.com/invowk/declcli/pkg/manifest"
)

func newRunCommand(app *App, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <manifest> [args...]",
		Short: "Run a command declared in a manifest",
		Long: `Run a command declared in a manifest.

Every token after the manifest name is handed to the declared interface
unchanged, options included. The manifest is looked up as given, then in
the current directory and the configured manifest.search_paths, trying
each supported extension when the name has none.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runManifest(cmd.Context(), flags, args[0], args[1:])
		},
	}
	// Stop flag parsing at the manifest name so its options reach the engine.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *App) runManifest(ctx context.Context, flags *rootFlags, name string, args []string) error {
	sess, err := a.newSession(ctx, flags)
	if err != nil {
		return a.fail(nil, flags, err)
	}
	defer sess.close()

	b, _, err := a.declare(sess, name)
	if err != nil {
		return a.fail(sess, flags, err)
	}

	inv, err := b.Parse(ctx, args)
	if err != nil {
		return a.fail(sess, flags, err)
	}

	sess.logger.Debug("invocation finished",
		"command", inv.Command,
		"invocation", inv.ID,
		"immediate", inv.Immediate)
	return nil
}

// declare finds and loads a manifest, then declares it on a new builder with
// script actions bound to the virtual shell. It returns the resolved path.
func (a *App) declare(sess *session, name string) (*builder.Builder, string, error) {
	path, err := manifest.Find(name, sess.cfg.Manifest.SearchPaths)
	if err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("find manifest").
			WithResource(name).
			WithSuggestions(
				"Check the manifest name or path",
				"Add its directory to manifest.search_paths in the configuration").
			WithIssue(issue.ManifestNotFoundId).
			Wrap(err).
			BuildError()
	}

	m, err := manifest.Load(path)
	if err != nil {
		id := issue.ManifestParseErrorId
		if errors.Is(err, manifest.ErrUnsupportedFormat) {
			id = issue.UnsupportedFormatId
		}
		return nil, path, issue.NewErrorContext().
			WithOperation("load manifest").
			WithResource(path).
			WithSuggestion("Run 'declcli check' on the manifest to see every problem").
			WithIssue(id).
			Wrap(err).
			BuildError()
	}

	rt := runtime.NewVirtual(
		runtime.WithBaseDir(a.baseDir(sess, path)),
		runtime.WithTimeout(sess.cfg.Runtime.Timeout),
		runtime.WithStdIO(a.stdin, a.stdout, a.stderr),
		runtime.WithLogger(sess.logger.Logger),
	)

	b := builder.New(builder.WithLogger(sess.logger.Logger))
	if err := manifest.Apply(b, m, manifest.WithActionFactory(rt.Handler)); err != nil {
		return nil, path, err
	}

	sess.logger.Debug("manifest declared", "path", path, "manifest", m.String())
	return b, path, nil
}

// baseDir is where relative action directories resolve: runtime.dir when
// configured, otherwise the manifest's own directory.
func (a *App) baseDir(sess *session, manifestPath string) string {
	if sess.cfg.Runtime.Dir != "" {
		return sess.cfg.Runtime.Dir
	}
	return filepath.Dir(manifestPath)
}
