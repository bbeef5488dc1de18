// pkg/server/problem.go

package server

import (
	"encoding/json"
	"net/http"
)

// Problem is the body of every error response.
type Problem struct {
	Error     string   `json:"error"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, msg string, details ...string) {
	writeJSON(w, status, Problem{Error: msg, Details: details, RequestID: GetRequestID(r)})
}
