package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/adapters/auth"
	"github.com/phenrril/backoffice/internal/usecase"
)

// TokenVerifier validates bearer tokens on incoming requests.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Providers    *usecase.ProviderUC
	Services     *usecase.ServiceUC
	Countries    *usecase.CountryUC
	CustomFields *usecase.CustomFieldUC
	Statistics   *usecase.StatisticsUC
	Auth         *usecase.AuthUC
}

type Options struct {
	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
	// Registry receives the HTTP metrics and backs /metrics. A private
	// registry is created when nil.
	Registry *prometheus.Registry
}

type Server struct {
	router  *mux.Router
	h       Handlers
	tokens  TokenVerifier
	db      Pinger
	metrics *Metrics
	now     func() time.Time
}

func New(h Handlers, tokens TokenVerifier, db Pinger, opts Options) http.Handler {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &Server{
		router:  mux.NewRouter(),
		h:       h,
		tokens:  tokens,
		db:      db,
		metrics: NewMetrics(),
		now:     time.Now,
	}
	reg.MustRegister(s.metrics)

	s.routes(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return withMiddleware(s.router, opts)
}

// withMiddleware wraps h in the request pipeline. Recovery runs inside
// RequestID so panic logs carry the request id.
func withMiddleware(h http.Handler, opts Options) http.Handler {
	return Chain(h,
		RateLimit(opts.RateLimitRPS, opts.RateLimitBurst),
		CORS(opts.CORSOrigin),
		Recovery,
		RequestID,
		Logging,
	)
}

func (s *Server) routes(metrics http.Handler) {
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Resource not found.")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})
	s.router.Use(s.metrics.Middleware, s.authenticate)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	api.HandleFunc("/providers", s.handleListProviders).Methods(http.MethodGet)
	api.HandleFunc("/providers", s.handleCreateProvider).Methods(http.MethodPost)
	api.HandleFunc("/providers/by-nit/{nit}", s.handleProviderByNit).Methods(http.MethodGet)
	api.HandleFunc("/providers/{id}", s.handleGetProvider).Methods(http.MethodGet)
	api.HandleFunc("/providers/{id}", s.handleUpdateProvider).Methods(http.MethodPut)
	api.HandleFunc("/providers/{id}", s.handleDeleteProvider).Methods(http.MethodDelete)

	api.HandleFunc("/services", s.handleListServices).Methods(http.MethodGet)
	api.HandleFunc("/services", s.handleCreateService).Methods(http.MethodPost)
	api.HandleFunc("/services/provider/{providerId}", s.handleServicesByProvider).Methods(http.MethodGet)
	api.HandleFunc("/services/{id}", s.handleGetService).Methods(http.MethodGet)
	api.HandleFunc("/services/{id}", s.handleUpdateService).Methods(http.MethodPut)
	api.HandleFunc("/services/{id}", s.handleDeleteService).Methods(http.MethodDelete)

	api.HandleFunc("/provider-custom-fields", s.handleCreateCustomField).Methods(http.MethodPost)
	api.HandleFunc("/provider-custom-fields/provider/{providerId}", s.handleCustomFieldsByProvider).Methods(http.MethodGet)
	api.HandleFunc("/provider-custom-fields/{id}", s.handleGetCustomField).Methods(http.MethodGet)
	api.HandleFunc("/provider-custom-fields/{id}", s.handleUpdateCustomField).Methods(http.MethodPut)
	api.HandleFunc("/provider-custom-fields/{id}", s.handleDeleteCustomField).Methods(http.MethodDelete)

	api.HandleFunc("/countries", s.handleListCountries).Methods(http.MethodGet)
	api.HandleFunc("/countries/local", s.handleLocalCountries).Methods(http.MethodGet)
	api.HandleFunc("/countries/{code}", s.handleGetCountry).Methods(http.MethodGet)

	stats := api.PathPrefix("/statistics").Subrouter()
	stats.Use(requireAuth)
	stats.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	stats.HandleFunc("/summary/export", s.handleSummaryExport).Methods(http.MethodGet)
	stats.HandleFunc("/providers-by-country", s.handleProvidersByCountry).Methods(http.MethodGet)
	stats.HandleFunc("/services-by-country", s.handleServicesByCountry).Methods(http.MethodGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			log.Error().Err(err).Msg("health: database unreachable")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, usecase.Response[any]{Message: msg})
}

type validationResponse struct {
	IsSuccess bool              `json:"isSuccess"`
	Message   string            `json:"message"`
	Data      any               `json:"data"`
	Errors    map[string]string `json:"errors"`
}

// statusFor maps a failure kind onto an HTTP status.
func statusFor(kind usecase.Kind) int {
	switch kind {
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindConflict, usecase.KindValidation:
		return http.StatusBadRequest
	case usecase.KindUnavailable:
		return http.StatusServiceUnavailable
	case usecase.KindUpstream:
		return http.StatusBadGateway
	case usecase.KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		log.Warn().Str("request_id", RequestIDFrom(r.Context())).Msg("request cancelled")
	} else {
		log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Str("path", r.URL.Path).Msg("request failed")
	}
	writeFailure(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func reply[T any](w http.ResponseWriter, r *http.Request, res usecase.Response[T], err error, success int) {
	if err != nil {
		internalError(w, r, err)
		return
	}
	if !res.IsSuccess {
		writeJSON(w, statusFor(res.Kind), res)
		return
	}
	writeJSON(w, success, res)
}

func replyPaged[T any](w http.ResponseWriter, r *http.Request, res usecase.PagedResponse[T], err error) {
	if err != nil {
		internalError(w, r, err)
		return
	}
	if !res.IsSuccess {
		writeJSON(w, statusFor(res.Kind), res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decode reads a JSON body into cmd. It writes the 400 response itself and
// reports false when the request must stop.
func decode(w http.ResponseWriter, r *http.Request, cmd any) bool {
	if err := json.NewDecoder(r.Body).Decode(cmd); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

// valid runs the declarative rules on cmd, normalizing it first.
func valid(w http.ResponseWriter, r *http.Request, cmd any) bool {
	err := usecase.Validate(cmd)
	if err == nil {
		return true
	}
	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: "Validation errors", Errors: ve.Fields})
		return false
	}
	internalError(w, r, err)
	return false
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid identifier.")
		return uuid.Nil, false
	}
	return id, true
}

// matchRouteID fills a missing body id from the route and rejects a
// conflicting one.
func matchRouteID(w http.ResponseWriter, route uuid.UUID, body *uuid.UUID) bool {
	if *body == uuid.Nil {
		*body = route
		return true
	}
	if *body != route {
		writeFailure(w, http.StatusBadRequest, "Route ID does not match body ID.")
		return false
	}
	return true
}

func intParam(r *http.Request, name string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	return n
}

func boolParam(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(name)))
	return b
}
