package web

import (
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/richsheet/internal/logging"
)

// handleIndex renders the host page: the published table plus a cache
// status strip.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	table, err := s.service.GetTable(ctx)
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	stats := s.service.CacheStats(ctx)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := TablePage(table, stats, s.cfg.Pipeline.ComputedColumn)
	if err := page.Render(ctx, w); err != nil {
		// Headers are already out; all we can do is log.
		logging.FromContext(ctx).Error("page render failed", "error", err)
	}
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleTable returns the published table as JSON.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	table, err := s.service.GetTable(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, r, table)
}

// handleCacheStats returns a point-in-time cache diagnostic snapshot.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.CacheStats(r.Context()))
}

// handleCacheClear drops both cache tiers. Failures surface in the result
// body, not as an HTTP error.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.ClearCaches(r.Context()))
}

// handlePreload recomputes the table and repopulates both cache tiers.
func (s *Server) handlePreload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.Preload(r.Context()))
}

// writeJSON writes a JSON response with the given value.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}
