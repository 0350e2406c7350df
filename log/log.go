// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger is the logging handle used across the codebase.
type Logger = *slog.Logger

const (
	LevelCrit  = slog.Level(12)
	LevelError = slog.LevelError
	LevelWarn  = slog.LevelWarn
	LevelInfo  = slog.LevelInfo
	LevelDebug = slog.LevelDebug
	LevelTrace = slog.Level(-8)

	levelMaxVerbosity = slog.Level(-100)
)

var root atomic.Pointer[slog.Logger]

func init() {
	root.Store(slog.New(DiscardHandler()))
}

// SetDefault sets the handler of the root logger.
func SetDefault(handler slog.Handler) {
	root.Store(slog.New(handler))
}

// Root returns the root logger.
func Root() Logger {
	return root.Load()
}

// WithContext returns a logger carrying the given key/value context.
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}

// FromLegacyLevel converts a legacy verbosity number (0=crit .. 5=trace)
// into a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	switch lvl {
	case 0:
		return LevelCrit
	case 1:
		return LevelError
	case 2:
		return LevelWarn
	case 3:
		return LevelInfo
	case 4:
		return LevelDebug
	default:
		return LevelTrace
	}
}

// LevelString returns a 5-character string containing the name of a level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelCrit:
		return "crit"
	default:
		return "unknown"
	}
}

// Crit logs at crit level via the root logger and exits.
func Crit(msg string, ctx ...any) {
	Root().Log(context.Background(), LevelCrit, msg, ctx...)
	os.Exit(1)
}
