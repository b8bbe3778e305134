// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable colored logs.
	ConsoleHandler HandlerType = "console"
)

// Level represents log level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// redacted lists attribute keys whose values are never written.
var redacted = []string{"authorization", "cookie", "api_key", "token", "secret", "password"}

// ParseLevel parses "debug", "info", "warn" or "error", ignoring case.
func ParseLevel(s string) (Level, error) {
	var level Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}

	return level, nil
}

// Logger builds the [slog.Logger] shared by the engine, middleware and CLI.
// The level can be changed at runtime; all other settings are fixed.
type Logger struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.LevelVar

	serviceName    string
	serviceVersion string
	environment    string

	addSource   bool
	replaceAttr func(groups []string, a slog.Attr) slog.Attr

	customLogger   *slog.Logger
	useCustom      bool
	registerGlobal bool

	slogger *slog.Logger
}

// Option is a functional option for configuring the logger.
type Option func(*Logger)

// New creates a Logger with the given options.
//
// The global slog default is only replaced when [WithGlobalLogger] is used.
func New(opts ...Option) (*Logger, error) {
	l := &Logger{
		handlerType: JSONHandler,
		output:      os.Stderr,
	}
	l.level.Set(LevelInfo)

	for _, opt := range opts {
		opt(l)
	}

	if err := l.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l.slogger = l.build()
	if l.registerGlobal {
		slog.SetDefault(l.slogger)
	}

	return l, nil
}

// MustNew creates a new Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}

	return l
}

func (l *Logger) validate() error {
	if l.useCustom {
		if l.customLogger == nil {
			return ErrNilLogger
		}
		return nil
	}
	if l.output == nil {
		return ErrNilOutput
	}
	switch l.handlerType {
	case JSONHandler, TextHandler, ConsoleHandler:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidHandler, l.handlerType)
	}

	return nil
}

func (l *Logger) build() *slog.Logger {
	if l.useCustom {
		return l.customLogger
	}

	opts := &slog.HandlerOptions{
		Level:       &l.level,
		AddSource:   l.addSource,
		ReplaceAttr: l.redact,
	}

	var handler slog.Handler
	switch l.handlerType {
	case TextHandler:
		handler = slog.NewTextHandler(l.output, opts)
	case ConsoleHandler:
		handler = newConsoleHandler(l.output, opts)
	default:
		handler = slog.NewJSONHandler(l.output, opts)
	}

	logger := slog.New(handler)

	var attrs []any
	if l.serviceName != "" {
		attrs = append(attrs, "service", l.serviceName)
	}
	if l.serviceVersion != "" {
		attrs = append(attrs, "version", l.serviceVersion)
	}
	if l.environment != "" {
		attrs = append(attrs, "env", l.environment)
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}

	return logger
}

func (l *Logger) redact(groups []string, a slog.Attr) slog.Attr {
	for _, key := range redacted {
		if strings.EqualFold(a.Key, key) {
			return slog.String(a.Key, "***REDACTED***")
		}
	}
	if l.replaceAttr != nil {
		return l.replaceAttr(groups, a)
	}

	return a
}

// Logger returns the underlying [slog.Logger].
func (l *Logger) Logger() *slog.Logger {
	return l.slogger
}

// With returns a logger that includes the given attributes.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.slogger.With(args...)
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) error {
	if l.useCustom {
		return ErrCannotChangeLevel
	}
	l.level.Set(level)

	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// ServiceName returns the service name.
func (l *Logger) ServiceName() string {
	return l.serviceName
}
