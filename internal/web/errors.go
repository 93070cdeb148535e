package web

// errors.go centralizes error responses. Technical detail goes to the log
// with the request ID; clients receive a stable, non-leaky message.

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JonMunkholm/richsheet/internal/logging"
)

// ErrorResponse is the JSON body returned for failed API requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError logs the underlying error and writes a response appropriate
// for the client: JSON for API callers, plain text for browsers.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	logger := logging.FromContext(r.Context())
	logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)

	message := publicMessage(status)
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if encErr := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); encErr != nil {
			logger.Error("failed to encode error response", "error", encErr)
		}
		return
	}
	http.Error(w, message, status)
}

// publicMessage maps a status code to a client-safe message. Internal error
// text never reaches the response body.
func publicMessage(status int) string {
	switch status {
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	case http.StatusRequestTimeout:
		return "request cancelled"
	default:
		return strings.ToLower(http.StatusText(status))
	}
}

// wantsJSON reports whether the client expects a JSON response.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
