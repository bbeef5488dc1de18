// pkg/server/handlers.go

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	cerr "github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/verify"
)

// CheckRequest is the body of POST /check. A missing password is the empty password.
type CheckRequest struct {
	Password string   `json:"password"`
	Hints    []string `json:"hints,omitempty" validate:"max=16,dive,max=256"`
}

// GenerateRequest is the optional body of POST /api/generate.
type GenerateRequest struct {
	Length     int      `json:"length,omitempty" validate:"omitempty,min=1,max=4096"`
	Categories []string `json:"categories,omitempty" validate:"omitempty,dive,category"`
}

// GenerateResponse pairs a fresh password with its report.
type GenerateResponse struct {
	Password string          `json:"password"`
	Report   strength.Report `json:"report"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	if err := verify.Struct(req); err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, "invalid request", problems(err)...)
		return
	}
	s.check(w, r, req.Password, req.Hints...)
}

func (s *Server) handleCheckPath(w http.ResponseWriter, r *http.Request) {
	password, err := url.PathUnescape(mux.Vars(r)["password"])
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, "malformed path escape")
		return
	}
	s.check(w, r, password)
}

func (s *Server) check(w http.ResponseWriter, r *http.Request, password string, hints ...string) {
	if len(password) > s.cfg.MaxPasswordLength {
		writeProblem(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("password too long (%d bytes, max %d)", len(password), s.cfg.MaxPasswordLength))
		return
	}
	writeJSON(w, http.StatusOK, s.eval.Evaluate(password, hints...))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	if err := verify.Struct(req); err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, "invalid request", problems(err)...)
		return
	}

	spec := s.specFor(req)
	pw, err := s.gen.Generate(spec)
	if err != nil {
		var ce *crypto.ConfigurationError
		if cerr.As(err, &ce) {
			writeProblem(w, r, http.StatusUnprocessableEntity, "invalid generation spec", ce.Problems()...)
			return
		}
		s.log.Error("Password generation failed", zap.String("request_id", GetRequestID(r)), zap.Error(err))
		writeProblem(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Password: pw, Report: s.eval.Evaluate(pw)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

// specFor applies request overrides to the server's default spec. Categories
// already configured keep their alphabet, so a custom special set survives.
func (s *Server) specFor(req GenerateRequest) crypto.Spec {
	spec := crypto.Spec{Length: s.spec.Length, Categories: s.spec.Categories}
	if req.Length > 0 {
		spec.Length = req.Length
	}
	if len(req.Categories) == 0 {
		return spec
	}

	configured := make(map[string]crypto.Category, len(s.spec.Categories))
	for _, c := range s.spec.Categories {
		configured[c.Name] = c
	}
	spec.Categories = nil
	for _, name := range req.Categories {
		c, err := crypto.CategoryByName(name)
		if err != nil {
			// unreachable after validation
			continue
		}
		if own, ok := configured[c.Name]; ok {
			c = own
		}
		spec.Categories = append(spec.Categories, c)
	}
	return spec
}

// decode reads a JSON body into v. It writes the problem response itself and
// reports false on failure. With optional set, an empty body keeps v's zero value.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooBig *http.MaxBytesError
	switch {
	case cerr.As(err, &tooBig):
		writeProblem(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit))
	case cerr.Is(err, io.EOF) && optional:
		return true
	case cerr.Is(err, io.EOF):
		writeProblem(w, r, http.StatusBadRequest, "request body is empty")
	default:
		// the decoder message may quote the body, which may hold a password
		writeProblem(w, r, http.StatusBadRequest, "malformed JSON body")
	}
	return false
}

func problems(err error) []string {
	var merr *multierror.Error
	if !cerr.As(err, &merr) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		out = append(out, e.Error())
	}
	return out
}
