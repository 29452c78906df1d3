package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/PaulBabatuyi/security-app-api/internal/apperrors"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string          `json:"error"`
	Code  apperrors.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError replies with the status and code carried by err. Errors that are
// not *apperrors.Error are logged and reported as INTERNAL.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}
	status := appErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Error: appErr.Message, Code: appErr.Code})
}

// decodeJSON reads a single JSON value from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.Validation("request body is required")
		case errors.As(err, &tooLarge):
			return apperrors.New(apperrors.CodePayloadTooLarge, "request body too large")
		default:
			return apperrors.Wrap(apperrors.CodeValidation, "invalid json", err)
		}
	}
	return nil
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, apperrors.NotFound("not found"))
}

func methodNotAllowedHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", Code: apperrors.CodeValidation})
}
