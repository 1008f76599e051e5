// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/invowk/declcli/pkg/decl"
)

type (
	// Option configures an Engine.
	Option func(*Engine)

	// Observer is told about every state transition of a run.
	Observer func(inv *decl.Invocation, from, to State)

	// Engine resolves and executes invocations against a read-only table.
	Engine struct {
		table    *decl.Table
		logger   *log.Logger
		newID    func() string
		observer Observer
		busy     atomic.Bool
	}
)

// WithLogger sets the logger used for debug tracing of runs.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUIDv7 invocation ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithObserver registers fn to be called on every state transition.
func WithObserver(fn Observer) Option {
	return func(e *Engine) { e.observer = fn }
}

// New creates an Engine over table. The table must not be mutated afterwards.
func New(table *decl.Table, opts ...Option) *Engine {
	e := &Engine{
		table:  table,
		logger: log.New(io.Discard),
		newID:  newInvocationID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newInvocationID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Table returns the declaration table for help collaborators.
func (e *Engine) Table() *decl.Table { return e.table }

// Run resolves args, binds them, applies defaults, validates and runs the
// actions of the matched command. The returned invocation is never nil and
// reflects how far the run got; the error, if any, is an *Error.
func (e *Engine) Run(ctx context.Context, args []string) (*decl.Invocation, error) {
	inv := decl.NewInvocation(e.newID())
	if !e.busy.CompareAndSwap(false, true) {
		return inv, newError(CodeEngineBusy, "", "", "engine is already running an invocation")
	}
	defer e.busy.Store(false)

	r := &run{
		engine: e,
		inv:    inv,
		state:  StateResolvingCommand,
		logger: e.logger.With("invocation", inv.ID),
	}
	err := r.execute(ctx, args)
	return inv, err
}
