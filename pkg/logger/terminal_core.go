// pkg/logger/terminal_core.go

package logger

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// TerminalPrefix marks log entries that are really user-facing output.
const TerminalPrefix = "terminal prompt:"

// IsTerminalEntry reports whether msg carries TerminalPrefix.
func IsTerminalEntry(msg string) bool {
	return strings.HasPrefix(msg, TerminalPrefix)
}

// terminalConsoleCore wraps a zapcore.Core and renders "terminal prompt" logs
// as plain text for human-friendly CLI output.
type terminalConsoleCore struct {
	base zapcore.Core
	out  io.Writer
	mu   *sync.Mutex
}

func newTerminalConsoleCore(base zapcore.Core, out io.Writer) zapcore.Core {
	return &terminalConsoleCore{base: base, out: out, mu: &sync.Mutex{}}
}

// Terminal output is shown whatever the level.
func (c *terminalConsoleCore) Enabled(zapcore.Level) bool {
	return true
}

func (c *terminalConsoleCore) With(fields []zapcore.Field) zapcore.Core {
	return &terminalConsoleCore{base: c.base.With(fields), out: c.out, mu: c.mu}
}

func (c *terminalConsoleCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if IsTerminalEntry(entry.Message) {
		return ce.AddCore(entry, c)
	}
	return c.base.Check(entry, ce)
}

func (c *terminalConsoleCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if IsTerminalEntry(entry.Message) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.writeTerminal(entry.Message, fields)
		return nil
	}
	return c.base.Write(entry, fields)
}

func (c *terminalConsoleCore) Sync() error {
	return c.base.Sync()
}

// Fields attached through With are context (component, trace id) and are not printed.
func (c *terminalConsoleCore) writeTerminal(message string, fields []zapcore.Field) {
	text := strings.TrimSpace(strings.TrimPrefix(message, TerminalPrefix))
	if text != "" {
		c.printLines(text)
	}

	if len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, field := range fields {
			field.AddTo(enc)
		}

		if output, ok := enc.Fields["output"]; ok {
			c.printLines(fmt.Sprint(output))
			delete(enc.Fields, "output")
		}

		if len(enc.Fields) > 0 {
			keys := make([]string, 0, len(enc.Fields))
			for key := range enc.Fields {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			for _, key := range keys {
				c.printLines(fmt.Sprintf("%s: %v", key, enc.Fields[key]))
			}
		}
	}

	if text == "" && len(fields) == 0 {
		_, _ = fmt.Fprintln(c.out)
	}
}

func (c *terminalConsoleCore) printLines(value string) {
	if value == "" {
		_, _ = fmt.Fprintln(c.out)
		return
	}

	for _, line := range strings.Split(strings.TrimRight(value, "\n"), "\n") {
		_, _ = fmt.Fprintln(c.out, line)
	}
}

// fileCore keeps terminal output out of the log file: it may hold generated passwords.
type fileCore struct {
	zapcore.Core
}

func newFileCore(base zapcore.Core) zapcore.Core {
	return &fileCore{Core: base}
}

func (c *fileCore) With(fields []zapcore.Field) zapcore.Core {
	return &fileCore{Core: c.Core.With(fields)}
}

func (c *fileCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if IsTerminalEntry(entry.Message) {
		return ce
	}
	return c.Core.Check(entry, ce)
}
