// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/invowk/declcli/internal/config"
	"github.com/invowk/declcli/internal/issue"
	"github.com/invowk/declcli/internal/logging"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// App wires the CLI services. All command handlers receive an App and
	// write through its streams, which keeps them testable.
	App struct {
		Config     config.Provider
		configDir  string
		stdin      io.Reader
		stdout     io.Writer
		stderr     io.Writer
		setProfile func(termenv.Profile)
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// ConfigDir overrides the platform config directory.
		ConfigDir string
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
		// SetColorProfile applies the ui.color setting. Defaults to lipgloss.SetColorProfile.
		SetColorProfile func(termenv.Profile)
	}

	// rootFlags holds the persistent flags shared by every subcommand.
	rootFlags struct {
		configPath string
		verbose    bool
	}

	// session is the per-command state derived from configuration.
	session struct {
		cfg     *config.Config
		logger  *logging.Logger
		verbose bool
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		configDir:  deps.ConfigDir,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		setProfile: deps.SetColorProfile,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.setProfile == nil {
		app.setProfile = lipgloss.SetColorProfile
	}
	return app
}

// NewRootCommand builds the declcli command tree.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "declcli",
		Short: "Run command-line interfaces declared in manifest files",
		Long: TitleStyle.Render("declcli") + SubtitleStyle.Render(" - Run command-line interfaces declared in manifest files") + `

declcli reads a manifest describing commands, positional arguments,
options, validators and script actions, then matches the remaining
arguments against it and runs the resolved command's actions.

Manifests can be written in CUE, TOML, HCL or JSON.

` + SubtitleStyle.Render("Examples:") + `
  declcli run cats.toml search maine coon   Run the 'search' command
  declcli run cats -- --limit 5 s persian   Pass option-like tokens through
  declcli check cats.cue                    Validate a manifest
  declcli table cats.hcl --json             Print the declaration table
  declcli config show                       Show current configuration`,
		SilenceUsage: true,
	}
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/declcli/config.cue)")

	rootCmd.AddCommand(newRunCommand(app, flags))
	rootCmd.AddCommand(newCheckCommand(app, flags))
	rootCmd.AddCommand(newTableCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		os.Exit(int(exitCodeFor(err)))
	}
}

// errorHandler skips errors the commands already rendered.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

func (a *App) loadOptions(flags *rootFlags) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: flags.configPath,
		ConfigDirPath:  a.configDir,
	}
}

// newSession loads configuration and builds the logger for one command.
func (a *App) newSession(ctx context.Context, flags *rootFlags) (*session, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions(flags))
	if err != nil {
		return nil, err
	}

	if p, ok := colorProfile(cfg.UI.Color); ok {
		a.setProfile(p)
	}

	verbose := flags.verbose || cfg.UI.Verbose
	logger, err := logging.New(a.stderr, cfg.Log, verbose)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("configure logging").
			WithResource(cfg.Log.File).
			WithSuggestion("Check the log section of the configuration").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &session{cfg: cfg, logger: logger, verbose: verbose}, nil
}

func (s *session) close() {
	if err := s.logger.Close(); err != nil {
		s.logger.Warn("failed to close log file", "error", err)
	}
}

// fail renders err and returns an already-rendered ExitError.
// sess may be nil when configuration could not be loaded.
func (a *App) fail(sess *session, flags *rootFlags, err error) error {
	verbose := flags.verbose
	mode := config.ColorModeAuto
	if sess != nil {
		verbose = sess.verbose
		mode = sess.cfg.UI.Color
		sess.logger.Debug("command failed", "error", err)
	}
	fmt.Fprint(a.stderr, renderError(err, verbose, markdownStyle(mode)))
	return &ExitError{Code: exitCodeFor(err)}
}
