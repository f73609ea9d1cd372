// Package respond writes JSON responses in the API's envelope.
package respond

import (
	"encoding/json"
	"net/http"
)

type ErrorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, ErrorBody{Error: message})
}

// Fields writes a 400 with per-field messages next to the summary.
func Fields(w http.ResponseWriter, r *http.Request, message string, fields map[string][]string) {
	JSON(w, r, http.StatusBadRequest, ErrorBody{Error: message, Fields: fields})
}
