// pkg/config/config_test.go

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

// isolate points the default config location and dotenv lookup at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, v, err := Load(Options{EnvFiles: []string{}})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(16*1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 4096, cfg.Server.MaxPasswordLength)
	assert.Equal(t, 16, cfg.Generator.Length)
	assert.Equal(t, []string{"lowercase", "uppercase", "digits", "special"}, cfg.Generator.Categories)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
	assert.Empty(t, cfg.Remote.URL)
	assert.Equal(t, "(defaults and environment)", Source(v))
}

func TestLoad_DefaultLocationFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "pwq", "config.yaml"), `
log_level: debug
server:
  addr: 0.0.0.0:9000
  read_timeout: 2s
generator:
  length: 24
  categories: [lowercase, digits]
watch:
  debounce: 150ms
`)

	cfg, v, err := Load(Options{EnvFiles: []string{}})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout) // default kept
	assert.Equal(t, 24, cfg.Generator.Length)
	assert.Equal(t, []string{"lowercase", "digits"}, cfg.Generator.Categories)
	assert.Equal(t, 150*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, filepath.Join(dir, "pwq", "config.yaml"), Source(v))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, filepath.Join(dir, "custom.yaml"), "server:\n  addr: 127.0.0.1:7000\n")
	t.Setenv("PWQ_SERVER_ADDR", "127.0.0.1:7100")
	t.Setenv("PWQ_GENERATOR_CATEGORIES", "upper,numbers")
	t.Setenv("PWQ_LOG_LEVEL", "WARN")

	cfg, _, err := Load(Options{File: file, EnvFiles: []string{}})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7100", cfg.Server.Addr)
	assert.Equal(t, []string{"upper", "numbers"}, cfg.Generator.Categories)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := writeFile(t, filepath.Join(dir, ".env"), "PWQ_REMOTE_TIMEOUT=750ms\n")
	t.Cleanup(func() { _ = os.Unsetenv("PWQ_REMOTE_TIMEOUT") })

	cfg, _, err := Load(Options{EnvFiles: []string{filepath.Join(dir, "missing.env"), envFile}})
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.Remote.Timeout)
}

func TestLoad_FlagsOverride(t *testing.T) {
	isolate(t)
	t.Setenv("PWQ_GENERATOR_LENGTH", "20")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("length", 16, "")
	fs.String("addr", "", "")
	require.NoError(t, fs.Parse([]string{"--length", "32"}))

	cfg, _, err := Load(Options{EnvFiles: []string{}, Flags: map[string]*pflag.Flag{
		KeyGeneratorLength: fs.Lookup("length"),
		KeyServerAddr:      fs.Lookup("addr"),
		KeyRemoteURL:       nil,
	}})
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Generator.Length)
	// unchanged flag does not shadow the default
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad category", body: "generator:\n  categories: [lowercase, emoji]\n"},
		{name: "zero length", body: "generator:\n  length: 0\n"},
		{name: "bad addr", body: "server:\n  addr: nowhere\n"},
		{name: "bad url", body: "remote:\n  url: not a url\n"},
		{name: "bad level", body: "log_level: chatty\n"},
		{name: "missing denylist file", body: "common_passwords_file: /does/not/exist\n"},
		{name: "not yaml", body: "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			file := writeFile(t, filepath.Join(dir, "c.yaml"), tt.body)

			_, _, err := Load(Options{File: file, EnvFiles: []string{}})
			require.Error(t, err)
			assert.Equal(t, 2, pwq_err.GetExitCode(err), err.Error())
		})
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir := isolate(t)
	_, _, err := Load(Options{File: filepath.Join(dir, "nope.yaml"), EnvFiles: []string{}})
	require.Error(t, err)
	assert.Equal(t, pwq_err.CategoryConfiguration, pwq_err.CategoryOf(err))
}

func TestGeneratorSpec(t *testing.T) {
	cfg := &Config{Generator: GeneratorConfig{Length: 10, Categories: []string{"digits", "special"}, Special: "#!"}}

	spec, err := cfg.GeneratorSpec()
	require.NoError(t, err)
	assert.Equal(t, 10, spec.Length)
	require.Len(t, spec.Categories, 2)
	assert.Equal(t, crypto.DigitAlphabet, spec.Categories[0].Alphabet)
	assert.Equal(t, "#!", spec.Categories[1].Alphabet)

	_, err = SpecFrom(8, []string{"glyphs"}, "")
	assert.Equal(t, 2, pwq_err.GetExitCode(err))
}

func TestEvaluator_CommonPasswordsFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "deny.txt"), "# corporate leaks\n\nCorpName#2024!x\n  Zq9!winterQx  \n")

	words, err := ReadCommonPasswords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"CorpName#2024!x", "Zq9!winterQx"}, words)

	cfg := &Config{CommonPasswordsFile: path}
	e, err := cfg.Evaluator()
	require.NoError(t, err)

	r := e.Evaluate("zq9!winterqx")
	assert.False(t, r.Criteria.Met(strength.CriterionNoCommonPatterns))

	_, err = (&Config{CommonPasswordsFile: filepath.Join(dir, "gone")}).Evaluator()
	assert.Error(t, err)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, filepath.Join(dir, "watch.yaml"), "log_level: info\n")

	_, v, err := Load(Options{File: file, EnvFiles: []string{}})
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		levels []string
	)
	got := make(chan struct{}, 8)
	require.True(t, Watch(v, zaptest.NewLogger(t), func(c *Config) {
		mu.Lock()
		levels = append(levels, c.LogLevel)
		mu.Unlock()
		got <- struct{}{}
	}))

	// an invalid edit is ignored, a valid one is delivered
	writeFile(t, file, "log_level: chatty\n")
	time.Sleep(100 * time.Millisecond)
	writeFile(t, file, "log_level: debug\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-got:
			mu.Lock()
			last := levels[len(levels)-1]
			mu.Unlock()
			if last == "debug" {
				mu.Lock()
				assert.NotContains(t, levels, "chatty")
				mu.Unlock()
				return
			}
		case <-deadline:
			t.Fatal("config change not delivered")
		}
	}
}

func TestWatch_NoFile(t *testing.T) {
	isolate(t)
	_, v, err := Load(Options{EnvFiles: []string{}})
	require.NoError(t, err)
	assert.False(t, Watch(v, zaptest.NewLogger(t), func(*Config) {}))
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)

	spec, err := cfg.GeneratorSpec()
	require.NoError(t, err)
	assert.Equal(t, crypto.DefaultSpec(), spec)
}
