package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hazyhaar/covidgraph/pkg/kit"
	"github.com/hazyhaar/covidgraph/pkg/region"
	"github.com/oklog/ulid/v2"
)

// NewRouter returns an http.Handler with all region API routes.
func NewRouter(src Source, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	h := &handler{
		listRegions:   kit.Logging(logger, "list_regions")(listRegionsEndpoint(src)),
		searchRegions: kit.Logging(logger, "search_regions")(searchRegionsEndpoint(src)),
		series:        kit.Logging(logger, "region_series")(seriesEndpoint(src)),
		src:           src,
	}

	mux.HandleFunc("GET /v1/regions", h.handleListRegions)
	mux.HandleFunc("GET /v1/regions/search", h.handleSearchRegions)
	mux.HandleFunc("GET /v1/series", h.handleSeries)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return requestID(mux)
}

type handler struct {
	listRegions   kit.Endpoint
	searchRegions kit.Endpoint
	series        kit.Endpoint
	src           Source
}

// --- list regions ---

func (h *handler) handleListRegions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listRegions(r.Context(), &listRegionsReq{Kind: r.URL.Query().Get("kind")})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- search ---

func (h *handler) handleSearchRegions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing q")
		return
	}
	resp, err := h.searchRegions(r.Context(), &searchRegionsReq{Query: q})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- series ---

type ambiguousResponse struct {
	Error      string       `json:"error"`
	Candidates []regionInfo `json:"candidates"`
}

func (h *handler) handleSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing q")
		return
	}
	choice := 0
	if v := r.URL.Query().Get("choice"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "choice must be an integer")
			return
		}
		choice = n
	}

	resp, err := h.series(r.Context(), &seriesReq{Query: q, Choice: choice})
	if err != nil {
		var (
			notFound  *region.NotFoundError
			ambiguous *region.AmbiguousError
		)
		switch {
		case errors.As(err, &notFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &ambiguous):
			writeJSON(w, http.StatusConflict, ambiguousResponse{
				Error:      err.Error(),
				Candidates: newRegionsResponse(ambiguous.Candidates).Regions,
			})
		case errors.Is(err, region.ErrInvalidChoice):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status    string `json:"status"`
	Countries int    `json:"countries"`
	States    int    `json:"states"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	cat := h.src.Catalog()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Countries: cat.Len(region.Country),
		States:    cat.Len(region.State),
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// requestID tags each request with a ULID, echoed in X-Request-ID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = ulid.Make().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(kit.WithRequestID(r.Context(), id)))
	})
}
