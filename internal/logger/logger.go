package logger

import (
	"log/slog"
	"os"
)

var base *slog.Logger

// Init installs a JSON slog handler on stdout and makes it the process
// default. Safe to skip in tests; the package falls back to slog.Default.
func Init() {
	base = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(base)
}

func current() *slog.Logger {
	if base != nil {
		return base
	}
	return slog.Default()
}

func attrs(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

func Info(msg string, fields map[string]any) {
	current().Info(msg, attrs(fields)...)
}

func Warn(msg string, fields map[string]any) {
	current().Warn(msg, attrs(fields)...)
}

func Error(msg string, fields map[string]any) {
	current().Error(msg, attrs(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	current().Error(msg, attrs(fields)...)
	os.Exit(1)
}
