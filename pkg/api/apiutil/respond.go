// Package apiutil holds the JSON response and error mapping shared by the
// HTTP handlers.
package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"valuecase/pkg/core/catalog"
	"valuecase/pkg/core/project"
	"valuecase/pkg/core/research"
	"valuecase/pkg/core/store"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 4 << 20

// ErrBadRequest marks malformed client input.
var ErrBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("[WARNING] Failed to encode response: %v\n", err)
	}
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, project.ErrKPILimit), errors.Is(err, project.ErrStageLocked):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, store.ErrInvalidID),
		errors.Is(err, research.ErrInvalidRequest),
		errors.Is(err, project.ErrUnknownStage),
		errors.Is(err, catalog.ErrUnknownPlatform):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as {"error": ...} with the mapped status. Server
// errors are logged.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		fmt.Printf("[ERROR] %v\n", err)
	}
	WriteJSON(w, status, errorBody{Error: err.Error()})
}

// DecodeJSON reads a JSON body into v. Unknown fields are allowed.
func DecodeJSON(r *http.Request, v interface{}) error {
	return decode(r, v, false)
}

// DecodeOptionalJSON is DecodeJSON for endpoints whose body may be omitted.
func DecodeOptionalJSON(r *http.Request, v interface{}) error {
	return decode(r, v, true)
}

func decode(r *http.Request, v interface{}, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return fmt.Errorf("%w: empty body", ErrBadRequest)
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read body: %v", ErrBadRequest, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if optional {
			return nil
		}
		return fmt.Errorf("%w: empty body", ErrBadRequest)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", ErrBadRequest, err)
	}
	return nil
}
