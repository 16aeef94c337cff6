// Shared response helpers used across handlers.
package web

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5/middleware"
)

// writeJSON writes a JSON response with the appropriate content type.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// respondError logs the technical error with the request ID and maps it to a
// client-safe status: a vanished data directory is a 503, everything else a
// 500. Handlers that know a better status call writeError directly.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"error", err.Error(),
		"request_id", middleware.GetReqID(r.Context()),
	)

	if errors.Is(err, fs.ErrNotExist) {
		writeError(w, http.StatusServiceUnavailable, "data directory unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// escapeFilename percent-encodes a download filename for the RFC 5987
// filename* parameter, which is how non-ASCII names survive the header.
func escapeFilename(name string) string {
	return url.PathEscape(name)
}
