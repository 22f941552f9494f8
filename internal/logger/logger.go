// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog for the KeyMinder server and command-line
// client.
//
// *Logger embeds zerolog.Logger, so Debug, Info, Warn and the rest are called
// on it directly. Request handlers take their logger from the request context
// (FromRequest), where the trace-id middleware stores a child carrying the
// trace id.
//
// Never log secrets: entry passwords, notes, login passwords, tokens and
// derived keys stay out of every event. Log ids instead.
package logger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger struct {
	zerolog.Logger
}

// NewLogger returns the server logger: JSON lines on stdout with role,
// timestamp and the calling function under "func". It logs at debug level
// until SetLevel is called with the configured level.
func NewLogger(role string) *Logger {
	return newLogger(os.Stdout, role)
}

func newLogger(w io.Writer, role string) *Logger {
	zerolog.CallerFieldName = "func"
	zerolog.CallerMarshalFunc = func(pc uintptr, _ string, _ int) string {
		return runtime.FuncForPC(pc).Name()
	}

	logger := zerolog.New(w).
		Level(zerolog.DebugLevel).
		With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// SetLevel drops events below the named level ("debug", "info", ...).
// Children created afterwards inherit it.
func (l *Logger) SetLevel(name string) error {
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return fmt.Errorf("unknown log level %q: %w", name, err)
	}
	l.Logger = l.Logger.Level(level)
	return nil
}

// NewClientLogger constructs the logger of the command-line client.
// Client stdout belongs to the user, so diagnostics go to stderr in console
// format and only when verbose is set.
func NewClientLogger(role string, verbose bool) *Logger {
	if !verbose {
		return Nop()
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.DebugLevel).
		With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{logger}
}

// Nop returns a *Logger that discards all log output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a copy that can be given extra fields without
// touching the receiver.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// ForUser returns a child tagged with user_id.
func (l *Logger) ForUser(userID string) *Logger {
	return &Logger{l.With().Str("user_id", userID).Logger()}
}

// FromRequest returns the logger attached to the request context.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the logger attached to ctx. Without one zerolog's
// default logger is returned, never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

// WithContext attaches l to ctx so that FromContext returns it.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}
