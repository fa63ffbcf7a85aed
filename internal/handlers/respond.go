// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the ProViewz API.
// Handlers are grouped by concern (posts, notifications, auth) and receive
// their dependencies through the handler struct. Every response body is
// JSON; errors are {"error": "<message>"}.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"proviewz/internal/apperr"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON encodes data as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

// statusFor maps an error classification to an HTTP status code.
func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends the client-safe message for err. Unclassified errors
// are logged and reported as "internal error".
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, statusFor(kind), map[string]string{"error": apperr.PublicMessage(err)})
}

// decodeJSON reads the request body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.Validation("request body is too large")
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is required")
		default:
			return apperr.Validation("invalid request body")
		}
	}
	return validate(dst)
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}
