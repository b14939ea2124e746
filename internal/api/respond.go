package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/stageplot/stageplot-go/internal/apperr"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("Warning: failed to encode response: %v", err)
		}
	}
}

// writeError maps service errors onto HTTP statuses. Storage errors are
// logged server-side and reported with a generic message so internals never
// leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	switch {
	case apperr.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case apperr.IsValidation(err):
		body := errorBody{Error: err.Error()}
		if errors.As(err, &appErr) {
			body.Fields = appErr.Fields
		}
		writeJSON(w, http.StatusBadRequest, body)
	default:
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "malformed JSON body")
		return false
	}
	return true
}
