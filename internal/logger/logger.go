// Package logger provides the structured slog logger used by the service.
// All logs are written in JSON format.
//
// Records always go to stdout. When file logging is enabled they are also
// appended to a size-rotated file:
//
//	<logDir>/system.log
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SystemLogFile is the file name used inside the log directory.
const SystemLogFile = "system.log"

// Rotation limits for the system log file.
const (
	maxSizeMB  = 10
	maxBackups = 5
	maxAgeDays = 28
)

// Options configures NewSystemLogger.
type Options struct {
	Level slog.Level
	// LogDir is where system.log is written. Empty disables file output.
	LogDir string
	// Stdout receives the console copy of every record. Defaults to os.Stdout.
	Stdout io.Writer
}

// NewSystemLogger creates a JSON slog.Logger. The returned closer flushes
// and closes the rotating file, if any.
func NewSystemLogger(opts Options) (*slog.Logger, io.Closer, error) {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	var closer io.Closer = nopCloser{}
	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0750); err != nil {
			return nil, nil, fmt.Errorf("creating log directory %q: %w", opts.LogDir, err)
		}
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(opts.LogDir, SystemLogFile),
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(out, rotator)
		closer = rotator
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
