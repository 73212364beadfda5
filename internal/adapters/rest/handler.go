package rest

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coooow/VibeMatcher/internal/core/services"
	"github.com/coooow/VibeMatcher/internal/logging"
	"github.com/coooow/VibeMatcher/internal/worker"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handler manages the HTTP interface for the matcher.
type Handler struct {
	svc    *services.Matcher
	pool   *worker.Pool
	router chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes. pool may be
// nil, in which case batch requests are rejected.
func NewHandler(svc *services.Matcher, pool *worker.Pool) *Handler {
	h := &Handler{
		svc:    svc,
		pool:   pool,
		router: chi.NewRouter(),
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.Use(chimiddleware.RequestID)
	h.router.Use(chimiddleware.RealIP)
	h.router.Use(requestLogger)
	h.router.Use(chimiddleware.Recoverer)

	h.router.Get("/health", h.HealthCheck)
	h.router.Get("/songs", h.SearchSongs)
	h.router.Route("/matches", func(r chi.Router) {
		r.Post("/", h.FindMatches)
		r.Post("/batch", h.BatchMatches)
	})
	h.router.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type healthResponse struct {
	Status string `json:"status"`
	Tracks int    `json:"tracks"`
}

// HealthCheck reports whether the catalog loaded.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Load(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Tracks: snap.Catalog.Len()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Debug().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(started)).
			Msg("http request")
	})
}
