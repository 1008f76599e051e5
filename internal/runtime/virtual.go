// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/declcli/pkg/decl"
	"github.com/invowk/declcli/pkg/manifest"
)

type (
	// Virtual runs script actions with the mvdan/sh interpreter.
	// Its Handler method is a manifest.ActionFactory.
	Virtual struct {
		baseDir string
		timeout time.Duration
		stdin   io.Reader
		stdout  io.Writer
		stderr  io.Writer
		environ func() []string
		logger  *log.Logger
	}

	// Option configures a Virtual runtime.
	Option func(*Virtual)
)

// WithBaseDir sets the directory relative action dirs resolve against.
// Empty means the process working directory.
func WithBaseDir(dir string) Option {
	return func(v *Virtual) { v.baseDir = dir }
}

// WithTimeout bounds each script run. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(v *Virtual) { v.timeout = d }
}

// WithStdIO sets the streams scripts read from and write to.
func WithStdIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(v *Virtual) {
		v.stdin = stdin
		v.stdout = stdout
		v.stderr = stderr
	}
}

// WithEnviron replaces os.Environ as the source of inherited variables.
func WithEnviron(environ func() []string) Option {
	return func(v *Virtual) { v.environ = environ }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(v *Virtual) { v.logger = l }
}

// NewVirtual creates a virtual runtime bound to the process standard streams.
func NewVirtual(opts ...Option) *Virtual {
	v := &Virtual{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		environ: os.Environ,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Handler parses the action's script and returns a handler running it.
// Syntax errors are reported here, at declaration time.
func (v *Virtual) Handler(command string, action manifest.Action) (decl.Handler, error) {
	name := "global"
	if command != "" {
		name = command
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(action.Script), name)
	if err != nil {
		return nil, fmt.Errorf("script syntax error: %w", err)
	}
	dir := v.workDir(action.Dir)

	return func(ctx context.Context, inv *decl.Invocation) error {
		return v.run(ctx, prog, dir, inv)
	}, nil
}

func (v *Virtual) run(ctx context.Context, prog *syntax.File, dir string, inv *decl.Invocation) error {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	env := make(map[string]string)
	for _, entry := range FilterEnv(v.environ()) {
		if k, val, ok := strings.Cut(entry, "="); ok {
			env[k] = val
		}
	}
	maps.Copy(env, InvocationEnv(inv))

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(EnvToSlice(env)...)),
		interp.StdIO(v.stdin, v.stdout, v.stderr),
	}
	if dir != "" {
		opts = append(opts, interp.Dir(dir))
	}
	// "--" keeps values such as "-v" from being read as shell options.
	if args := PositionalArgs(inv); len(args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	v.logger.Debug("running script action", "command", inv.Command, "invocation", inv.ID, "dir", dir)

	err = runner.Run(ctx, prog)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("script interrupted: %w", ctxErr)
	}
	var status interp.ExitStatus
	if errors.As(err, &status) {
		return &ScriptError{Command: inv.Command, Code: ExitCode(status)}
	}
	return fmt.Errorf("script execution failed: %w", err)
}

func (v *Virtual) workDir(actionDir string) string {
	switch {
	case actionDir == "":
		return v.baseDir
	case filepath.IsAbs(actionDir):
		return actionDir
	default:
		return filepath.Join(v.baseDir, actionDir)
	}
}
