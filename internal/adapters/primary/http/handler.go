package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/denchenko/usercards/internal/core/domain"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := parseParam(query.Get("page"), "page")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	results, err := parseParam(query.Get("results"), "results")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	rs, err := s.app.FetchUsers(r.Context(), page, results)
	if err != nil {
		s.writeFetchError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) writeFetchError(w http.ResponseWriter, err error) {
	logrus.WithError(err).Warn("failed to fetch users")

	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:          httpErr.Error(),
			UpstreamStatus: httpErr.Status,
		})

		return
	}

	var decodeErr *domain.DecodeError
	if errors.As(err, &decodeErr) {
		writeError(w, http.StatusBadGateway, decodeErr)

		return
	}

	writeError(w, http.StatusInternalServerError, errors.New("internal server error"))
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.app.CacheStats(r.Context())
	if err != nil {
		logrus.WithError(err).Error("failed to get cache stats")
		writeError(w, http.StatusInternalServerError, errors.New("internal server error"))

		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.app.ClearCache(r.Context()); err != nil {
		logrus.WithError(err).Error("failed to clear cache")
		writeError(w, http.StatusInternalServerError, errors.New("internal server error"))

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	page, err := parseParam(chi.URLParam(r, "page"), "page")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	results, err := parseParam(chi.URLParam(r, "results"), "results")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	if err := s.app.Invalidate(r.Context(), page, results); err != nil {
		logrus.WithError(err).Error("failed to invalidate cache entry")
		writeError(w, http.StatusInternalServerError, errors.New("internal server error"))

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseParam parses an optional non-negative integer. Empty means zero, which selects the default.
func parseParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}

	return n, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("failed to write response")
	}
}
