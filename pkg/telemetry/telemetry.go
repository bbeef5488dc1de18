// pkg/telemetry/telemetry.go
package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	cerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/shared"
)

var (
	mu       sync.RWMutex
	tracer   trace.Tracer = noop.NewTracerProvider().Tracer(shared.AppID)
	shutdown              = func(context.Context) error { return nil }
)

// Options decides whether spans are exported and where.
type Options struct {
	// Enabled forces export on; the telemetry_on marker file also enables it.
	Enabled bool
	// Path of the JSONL span file. Defaults to the state directory.
	Path string
}

// Init configures OpenTelemetry; call this early in main().
func Init(service string, opts Options) error {
	if !opts.Enabled && !markerPresent() {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		setTracer(tp.Tracer(service), func(context.Context) error { return nil })
		return nil
	}

	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), shared.DirPermOwner); err != nil {
		return cerr.Wrap(err, "failed to create telemetry directory")
	}

	// Spans are appended as JSON lines
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, shared.FilePermOwnerReadWrite)
	if err != nil {
		return cerr.Wrap(err, "failed to open telemetry file")
	}

	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(file),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		_ = file.Close()
		return cerr.Wrap(err, "failed to create file exporter")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(
			sdkresource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceName(service),
				semconv.ServiceVersion(shared.BuildVersion()),
				attribute.String("host.name", hostname()),
				attribute.String("telemetry.anon_id", AnonTelemetryID()),
			),
		),
	)

	otel.SetTracerProvider(tp)
	setTracer(tp.Tracer(service), func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		return err
	})
	return nil
}

// Shutdown flushes pending spans. Safe to call when telemetry is disabled.
func Shutdown(ctx context.Context) error {
	mu.RLock()
	fn := shutdown
	mu.RUnlock()
	return fn(ctx)
}

// Start a telemetry span with optional attributes.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	mu.RLock()
	t := tracer
	mu.RUnlock()
	return t.Start(ctx, name, trace.WithAttributes(attrs...))
}

func setTracer(t trace.Tracer, fn func(context.Context) error) {
	mu.Lock()
	defer mu.Unlock()
	tracer = t
	shutdown = fn
}

// DefaultPath is the span file under the XDG state directory.
func DefaultPath() string {
	return filepath.Join(stateDir(), "telemetry.jsonl")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, shared.AppID)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", shared.AppID)
	}
	return filepath.Join(os.TempDir(), shared.AppID)
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, shared.AppID)
	}
	return filepath.Join(os.TempDir(), shared.AppID)
}

// MarkerPath is the file whose presence turns span export on for every run.
func MarkerPath() string {
	return filepath.Join(configDir(), "telemetry_on")
}

func markerPresent() bool {
	_, err := os.Stat(MarkerPath())
	return err == nil
}

// MarkerEnabled reports whether the marker file is present.
func MarkerEnabled() bool {
	return markerPresent()
}

// SetMarker creates or removes the marker file.
func SetMarker(on bool) error {
	path := MarkerPath()
	if !on {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return cerr.Wrap(err, "disable telemetry")
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), shared.DirPermOwner); err != nil {
		return cerr.Wrap(err, "mkdir failed")
	}
	if err := os.WriteFile(path, []byte("on\n"), shared.FilePermOwnerReadWrite); err != nil {
		return cerr.Wrap(err, "enable telemetry")
	}
	return nil
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}

// AnonTelemetryID is a random per-installation id, created on first use.
func AnonTelemetryID() string {
	path := filepath.Join(configDir(), "telemetry_id")

	if data, err := os.ReadFile(path); err == nil {
		return strings.TrimSpace(string(data))
	}

	id := "anon-" + uuid.New().String()
	_ = os.MkdirAll(filepath.Dir(path), shared.DirPermOwner)
	_ = os.WriteFile(path, []byte(id), shared.FilePermOwnerReadWrite)

	return id
}
