package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/garnizeh/jobtracker/pkg/repository"
)

// Validation error kinds reported to clients.
const (
	KindInvalidBody   = "invalid_body"
	KindMissingField  = "missing_field"
	KindMalformedDate = "malformed_date"
	KindTooLong       = "too_long"
)

// ValidationError is a client error in a request body.
type ValidationError struct {
	Kind  string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// notFoundError names the application id a request addressed.
type notFoundError struct {
	id string
}

func notFound(id string) error { return &notFoundError{id: id} }

func (e *notFoundError) Error() string {
	return fmt.Sprintf("application %s not found", e.id)
}

func (e *notFoundError) Unwrap() error { return repository.ErrNotFound }

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError maps err onto a status code. Anything that is neither a
// validation nor a not-found error is treated as a storage failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, errorResponse{Error: verr.Error(), Kind: verr.Kind, Field: verr.Field}, http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		msg := "application not found"
		var nf *notFoundError
		if errors.As(err, &nf) {
			msg = nf.Error()
		}
		writeJSON(w, errorResponse{Error: msg}, http.StatusNotFound)
	default:
		logger.Error("request failed",
			slog.String("request_id", RequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		writeJSON(w, errorResponse{Error: "internal error"}, http.StatusInternalServerError)
	}
}
