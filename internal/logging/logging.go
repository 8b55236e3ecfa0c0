// Package logging builds the process-wide slog logger.  When a directory is
// configured, records go to a size-rotated fleetd.log through lumberjack as
// well as to stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iliyamo/fleet-scheduling/internal/config"
)

// FileName is the name of the rotated log inside the log directory.
const FileName = "fleetd.log"

// Logger pairs the slog logger with the rotating writer so it can be closed
// on shutdown.
type Logger struct {
	*slog.Logger
	file *lumberjack.Logger
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%s: invalid log level", s)
}

// New builds a logger from cfg writing to stderr and, when cfg.Dir is set,
// to the rotated file.
func New(cfg config.LogConfig) (*Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit console writer.
func NewWithWriter(cfg config.LogConfig, console io.Writer) (*Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	l := &Logger{}
	w := console
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		l.file = &lumberjack.Logger{
			Filename: filepath.Join(cfg.Dir, FileName),
			MaxSize:  64, // MB
			MaxAge:   14,
			Compress: true,
		}
		w = io.MultiWriter(console, l.file)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		h = slog.NewTextHandler(w, opts)
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%s: invalid log format", cfg.Format)
	}
	l.Logger = slog.New(h)
	return l, nil
}

// LogFile returns the rotated file path, or "" when logging to the console
// only.
func (l *Logger) LogFile() string {
	if l.file == nil {
		return ""
	}
	return l.file.Filename
}

// Close flushes and closes the rotated file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Hello records the runtime and build of the process at startup.
func (l *Logger) Hello(component string) {
	l.Info("starting", slog.String("component", component),
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))
	if bi, ok := debug.ReadBuildInfo(); ok {
		l.Info("build",
			slog.String("go_version", bi.GoVersion),
			slog.String("path", bi.Path),
			slog.String("version", bi.Main.Version))
	}
}
