package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is a thin slog wrapper that carries the package, file and function a
// message originates from. Methods prefixed Err/Error return the logged error so
// call sites can `return log.Err(...)`.
type Logger struct {
	name     string
	file     string
	function string
}

func New(name string) Logger {
	return Logger{name: name}
}

// Setup installs the process-wide handler. JSON output in production, text otherwise.
func Setup(w io.Writer, production bool, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func SetupDefault(production bool) {
	level := slog.LevelInfo
	if !production {
		level = slog.LevelDebug
	}
	Setup(os.Stdout, production, level)
}

func (l Logger) File(file string) Logger {
	l.file = file
	return l
}

func (l Logger) Function(function string) Logger {
	l.function = function
	return l
}

func (l Logger) attrs(args []any) []any {
	base := []any{"package", l.name}
	if l.file != "" {
		base = append(base, "file", l.file)
	}
	if l.function != "" {
		base = append(base, "function", l.function)
	}
	return append(base, args...)
}

func (l Logger) logger() *slog.Logger {
	return slog.Default()
}

func (l Logger) Debug(msg string, args ...any) {
	l.logger().Log(context.Background(), slog.LevelDebug, msg, l.attrs(args)...)
}

func (l Logger) Info(msg string, args ...any) {
	l.logger().Log(context.Background(), slog.LevelInfo, msg, l.attrs(args)...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.logger().Log(context.Background(), slog.LevelWarn, msg, l.attrs(args)...)
}

// Er logs err without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	args = append(args, "error", err)
	l.logger().Log(context.Background(), slog.LevelError, msg, l.attrs(args)...)
}

func (l Logger) ErMsg(msg string, args ...any) {
	l.logger().Log(context.Background(), slog.LevelError, msg, l.attrs(args)...)
}

// Err logs err and returns it wrapped with msg.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.ErMsg(msg, args...)
	return errors.New(msg)
}

func (l Logger) ErrMsg(msg string) error {
	return l.Error(msg)
}
