// SPDX-License-Identifier: MPL-2.0

// Package logging builds the declcli host logger from configuration.
package logging

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/invowk/declcli/internal/config"
)

// Prefix is shown in front of every text record.
const Prefix = "declcli"

type (
	// Logger is a charmbracelet logger that may own a rotating log file.
	Logger struct {
		*log.Logger
		file *lumberjack.Logger
	}
)

// New builds a logger writing to w and, when cfg.File is set, to a rotating
// log file. verbose forces the debug level regardless of cfg.Level.
func New(w io.Writer, cfg config.LogConfig, verbose bool) (*Logger, error) {
	level, err := log.ParseLevel(string(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level = log.DebugLevel
	}

	formatter, err := formatterFor(cfg.Format)
	if err != nil {
		return nil, err
	}

	out := &Logger{}
	if cfg.File != "" {
		out.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		w = io.MultiWriter(w, out.file)
	}

	out.Logger = log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: cfg.File != "" || formatter != log.TextFormatter,
	})
	return out, nil
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return &Logger{Logger: log.New(io.Discard)}
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

var errUnknownFormat = errors.New("unknown log format")

func formatterFor(f config.LogFormat) (log.Formatter, error) {
	switch f {
	case config.LogFormatText, "":
		return log.TextFormatter, nil
	case config.LogFormatJSON:
		return log.JSONFormatter, nil
	case config.LogFormatLogfmt:
		return log.LogfmtFormatter, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownFormat, f)
	}
}
