package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/katana/internal/store"
)

// ResultsHandler handles HTTP requests for recorded games.
type ResultsHandler struct {
	store *store.Store
}

// NewResultsHandler creates a new ResultsHandler with the given store.
func NewResultsHandler(s *store.Store) *ResultsHandler {
	return &ResultsHandler{store: s}
}

// ServeHTTP routes /api/results, /api/results/best and /api/results/{id}.
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/results")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
	case path == "best":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.best(w, r)
	default:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, path)
		case http.MethodDelete:
			h.delete(w, r, path)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

type resultResponse struct {
	*store.Result
	DurationMs int64 `json:"duration_ms"`
}

type listResultsResponse struct {
	Results []resultResponse `json:"results"`
}

func toResponse(res *store.Result) resultResponse {
	return resultResponse{Result: res, DurationMs: res.Duration().Milliseconds()}
}

// list handles GET /api/results?limit=N, newest first.
func (h *ResultsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	results, err := h.store.Results().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list results")
		return
	}

	response := listResultsResponse{
		Results: make([]resultResponse, 0, len(results)),
	}
	for _, res := range results {
		response.Results = append(response.Results, toResponse(res))
	}

	writeJSON(w, http.StatusOK, response)
}

// best handles GET /api/results/best.
func (h *ResultsHandler) best(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.Results().Best()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No results yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get best result")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(res))
}

// get handles GET /api/results/{id}.
func (h *ResultsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	res, err := h.store.Results().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Result not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get result")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(res))
}

// delete handles DELETE /api/results/{id}.
func (h *ResultsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Results().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Result not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete result")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
