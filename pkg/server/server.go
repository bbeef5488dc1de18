// pkg/server/server.go

package server

import (
	"context"
	"net"
	"net/http"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/config"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

// Options configures a Server. Zero-valued fields fall back to defaults.
type Options struct {
	Config    config.ServerConfig
	Evaluator *strength.Evaluator
	Generator *crypto.Generator
	// Spec is used by /api/generate when the request does not override it.
	Spec    crypto.Spec
	Logger  *zap.Logger
	Version string
}

// Server exposes the evaluator and generator over HTTP.
type Server struct {
	cfg     config.ServerConfig
	eval    *strength.Evaluator
	gen     *crypto.Generator
	spec    crypto.Spec
	log     *zap.Logger
	version string

	router *mux.Router
	http   *http.Server
}

// New wires routes and middlewares. It does not start listening.
func New(opts Options) *Server {
	s := &Server{
		cfg:     opts.Config,
		eval:    opts.Evaluator,
		gen:     opts.Generator,
		spec:    opts.Spec,
		log:     opts.Logger,
		version: opts.Version,
	}
	if s.eval == nil {
		s.eval = strength.NewEvaluator()
	}
	if s.gen == nil {
		s.gen = crypto.NewGenerator(nil)
	}
	if len(s.spec.Categories) == 0 {
		s.spec = crypto.DefaultSpec()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.cfg.MaxBodyBytes <= 0 {
		s.cfg.MaxBodyBytes = 16 << 10
	}
	if s.cfg.MaxPasswordLength <= 0 {
		s.cfg.MaxPasswordLength = 4096
	}
	if s.cfg.ShutdownTimeout <= 0 {
		s.cfg.ShutdownTimeout = 10 * time.Second
	}

	s.router = s.routes()
	s.http = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		ErrorLog:          zap.NewStdLog(s.log.Named("http")),
	}
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	// keep %2F inside {password} instead of treating it as a separator
	r.UseEncodedPath()

	r.Use(RequestID, SecurityHeaders, AccessLog(s.log), Recovery(s.log), BodySizeLimit(s.cfg.MaxBodyBytes))

	r.HandleFunc("/check", s.handleCheck).Methods(http.MethodPost)
	r.HandleFunc("/api/check/{password}", s.handleCheckPath).Methods(http.MethodGet)
	r.HandleFunc("/api/generate", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	r.NotFoundHandler = RequestID(SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "not found")
	})))
	r.MethodNotAllowedHandler = RequestID(SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})))
	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return cerr.Wrapf(err, "listen on %s", s.cfg.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is done, then drains in-flight requests for at
// most the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info("Listening", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if cerr.Is(err, http.ErrServerClosed) {
			return nil
		}
		return cerr.Wrap(err, "serve")
	case <-ctx.Done():
	}

	s.log.Info("Shutting down", zap.Duration("timeout", s.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		_ = s.http.Close()
		return cerr.Wrap(err, "graceful shutdown")
	}
	if err := <-errCh; err != nil && !cerr.Is(err, http.ErrServerClosed) {
		return cerr.Wrap(err, "serve")
	}
	s.log.Info("Server stopped")
	return nil
}
