/* pkg/logger/fallback.go */

package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where Initialize sends output. Zero values mean the process
// defaults: diagnostics on stderr, "terminal prompt:" lines on stdout.
type Options struct {
	Level    string
	Stderr   io.Writer
	Stdout   io.Writer
	LogPaths []string
}

func (o *Options) defaults() {
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.LogPaths == nil {
		o.LogPaths = PlatformLogPaths()
	}
	if o.Level == "" {
		o.Level = os.Getenv("LOG_LEVEL")
	}
}

// NewFallbackLogger logs to stderr only.
func NewFallbackLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(newTerminalConsoleCore(core, os.Stdout), zap.AddCaller())
}

// Initialize builds the console + JSON file tee and installs it globally. The
// returned path is the log file in use, empty when only the console is logging.
func Initialize(opts Options) (string, error) {
	opts.defaults()
	level.SetLevel(ParseLogLevel(opts.Level))

	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.AddSync(opts.Stderr),
		level,
	)
	cores := []zapcore.Core{newTerminalConsoleCore(console, opts.Stdout)}

	path, err := FindWritableLogPath(opts.LogPaths)
	if err == nil {
		var writer zapcore.WriteSyncer
		writer, err = GetLogFileWriter(path)
		if err == nil {
			cores = append(cores, newFileCore(zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig()), writer, level)))
		} else {
			path = ""
		}
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	SetLogger(l)
	return path, err
}

// InitializeWithFallback never fails: without a writable log file it keeps the console core.
func InitializeWithFallback() {
	path, err := Initialize(Options{})
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "⚠️  No writable log path found. Logging to console only.")
		L().Debug("Logger fallback initialized", zap.Error(err))
		return
	}
	L().Debug("Logger initialized",
		zap.String("log_level", level.String()),
		zap.String("log_path", path),
	)
}
