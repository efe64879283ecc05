package interfaces

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/yair/showfinder/pkg/domain"
	"github.com/yair/showfinder/pkg/export"
)

const (
	APIKeyHeader = "X-Ticketmaster-Key"

	DefaultCity      = "Seoul"
	defaultRangeDays = 14
	dateLayout       = "2006-01-02"

	// upper bound for the handler; the upstream client has its own timeout
	searchTimeout = 30 * time.Second
)

type SearchHandler struct {
	service domain.SearchService
	log     *slog.Logger
	now     func() time.Time
}

func NewSearchHandler(service domain.SearchService, log *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		log:     log,
		now:     time.Now,
	}
}

// RegisterRoutes mounts the search routes behind the given middleware.
func (h *SearchHandler) RegisterRoutes(router *mux.Router, middleware ...mux.MiddlewareFunc) {
	sub := router.NewRoute().Subrouter()
	sub.Use(middleware...)

	sub.HandleFunc("/api/events/search", h.SearchEvents).Methods("GET")
	sub.HandleFunc("/api/events/export.csv", h.ExportCSV).Methods("GET")
	sub.HandleFunc("/api/events/export.pdf", h.ExportPDF).Methods("GET")
	sub.HandleFunc("/api/searches/recent", h.RecentSearches).Methods("GET")
}

type searchResponse struct {
	*domain.SearchResult
	Message string `json:"message"`
}

func (h *SearchHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	result, filters, ok := h.search(w, r)
	if !ok {
		return
	}

	message := fmt.Sprintf("showing %d of %d events (page=%d)", len(result.Events), result.Total, filters.Page)
	if result.Empty() {
		message = domain.ErrEmptyResult.Error()
	}

	respondWithJSON(w, http.StatusOK, searchResponse{SearchResult: result, Message: message})
}

func (h *SearchHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	result, filters, ok := h.search(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, result.Events); err != nil {
		h.log.Error("csv export failed", slog.String("err", err.Error()))
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondWithFile(w, "text/csv; charset=utf-8", export.Filename(filters.City, filters.Keyword, "csv"), buf.Bytes())
}

func (h *SearchHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	result, filters, ok := h.search(w, r)
	if !ok {
		return
	}

	title := fmt.Sprintf("Events %s - %s", filters.FromDate.Format(dateLayout), filters.ToDate.Format(dateLayout))
	if filters.City != "" {
		title += " in " + filters.City
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, title, result.Events); err != nil {
		h.log.Error("pdf export failed", slog.String("err", err.Error()))
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondWithFile(w, "application/pdf", export.Filename(filters.City, filters.Keyword, "pdf"), buf.Bytes())
}

func (h *SearchHandler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsedLimit
	}

	records, err := h.service.RecentSearches(ctx, limit)
	if err != nil {
		h.log.Error("failed to list searches", slog.String("err", err.Error()))
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"searches": records})
}

// search parses the filters and runs the search, writing the error
// response itself when it fails.
func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request) (*domain.SearchResult, domain.SearchFilters, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), searchTimeout)
	defer cancel()

	filters, err := parseFilters(r.URL.Query(), h.now())
	if err != nil {
		respondWithSearchError(w, err)
		return nil, filters, false
	}

	result, err := h.service.Search(ctx, filters, r.Header.Get(APIKeyHeader))
	if err != nil {
		respondWithSearchError(w, err)
		return nil, filters, false
	}

	return result, filters.Normalize(), true
}

func (h *SearchHandler) respondWithFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// parseFilters reads search filters from query parameters. An absent city
// defaults to DefaultCity, an explicitly empty one searches everywhere.
// The range defaults to today (UTC) plus two weeks.
func parseFilters(q url.Values, now time.Time) (domain.SearchFilters, error) {
	filters := domain.SearchFilters{
		City:        DefaultCity,
		Keyword:     q.Get("keyword"),
		CountryCode: q.Get("country"),
		PageSize:    domain.DefaultPageSize,
	}
	if _, ok := q["city"]; ok {
		filters.City = q.Get("city")
	}

	today := now.UTC().Truncate(24 * time.Hour)
	filters.FromDate = today
	if v := q.Get("from"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return filters, domain.ValidationError{Field: "from", Message: "must be a date in YYYY-MM-DD form"}
		}
		filters.FromDate = d
	}

	filters.ToDate = filters.FromDate.AddDate(0, 0, defaultRangeDays)
	if v := q.Get("to"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return filters, domain.ValidationError{Field: "to", Message: "must be a date in YYYY-MM-DD form"}
		}
		filters.ToDate = d
	}

	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return filters, domain.ValidationError{Field: "size", Message: "must be an integer"}
		}
		filters.PageSize = size
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return filters, domain.ValidationError{Field: "page", Message: "must be an integer"}
		}
		filters.Page = page
	}

	return filters, nil
}
