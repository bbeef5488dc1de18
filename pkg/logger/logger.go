// pkg/logger/logger.go

package logger

import (
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	log   = zap.NewNop()
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

// L returns the process logger. It is a no-op logger until Initialize runs.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the process logger, zap's globals and the otelzap globals
// behind otelzap.Ctx.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
	otelzap.ReplaceGlobals(otelzap.New(l))
}

// Level is the shared level of every core built by this package. Changing it
// takes effect immediately, which is how config reloads adjust verbosity.
func Level() zap.AtomicLevel {
	return level
}

// SetLevel parses s and applies it to Level.
func SetLevel(s string) zap.AtomicLevel {
	level.SetLevel(ParseLogLevel(s))
	return level
}

// Sync flushes any buffered log entries. Should be called before the application exits.
// Syncing a terminal returns EINVAL on some platforms; that error is not interesting.
func Sync() error {
	err := L().Sync()
	if err != nil && isIgnorableSyncError(err) {
		return nil
	}
	return err
}
