package httphandler

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ericfisherdev/ghmirror/internal/application"
	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the JSON API used by the
// search box.
type Handler struct {
	search *application.SearchService
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(search *application.SearchService, logger *slog.Logger) *Handler {
	return &Handler{
		search: search,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterAPIRoutes registers all JSON API routes on the given mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/search", h.Search)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ApplyMiddleware wraps a handler with request id, client address, logging,
// recovery and compression middleware.
func ApplyMiddleware(handler http.Handler, logger *slog.Logger) http.Handler {
	// Recovery sits inside logging so panics are logged with their 500 status.
	wrapped := middleware.Compress(5)(handler)
	wrapped = recoveryMiddleware(logger, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = middleware.RealIP(wrapped)
	return middleware.RequestID(wrapped)
}

// Search handles GET /api/search?q=. It always answers with a JSON array;
// only an exhausted rate limit is reported as an error.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		var rl *model.RateLimitError
		if !errors.As(err, &rl) {
			h.logger.Error("search failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if rl.ResetAt != nil {
			if secs := math.Ceil(rl.ResetAt.Sub(h.now()).Seconds()); secs > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(secs)))
			}
		}
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	}

	resp := make([]SearchResultResponse, 0, len(results))
	for _, res := range results {
		resp = append(resp, toSearchResultResponse(res))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}
