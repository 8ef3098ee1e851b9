package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/domain"
	externaluc "github.com/duma2005/moviedeck/internal/usecase/external"
	healthuc "github.com/duma2005/moviedeck/internal/usecase/health"
)

// error codes returned in JSON error bodies.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeForbidden        = "forbidden"
	codeNotFound         = "not_found"
	codeAlreadyExists    = "already_exists"
	codeUpstreamError    = "upstream_error"
	codeNotConfigured    = "not_configured"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API over all use cases.
type Server struct {
	chat          ChatService
	auth          AuthService
	movies        MovieService
	ratings       RatingService
	watchlist     WatchlistService
	genres        GenreLister
	people        PersonReader
	external      ExternalService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	chat ChatService,
	auth AuthService,
	movies MovieService,
	ratings RatingService,
	watchlist WatchlistService,
	genres GenreLister,
	people PersonReader,
	external ExternalService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		chat:      chat,
		auth:      auth,
		movies:    movies,
		ratings:   ratings,
		watchlist: watchlist,
		genres:    genres,
		people:    people,
		external:  external,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		upstreamStatusHandler,
		sentinelHandler(domain.ErrEmptyQuestion, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusBadRequest, codeAlreadyExists),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrUpstreamNotConfigured, http.StatusInternalServerError, codeNotConfigured),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrGeneratorUnavailable, http.StatusBadGateway, codeUpstreamError),
	}
	return s
}

// Routes builds the route tree.
func (s *Server) Routes(r chi.Router) {
	r.Post("/chatbot/chat", s.handleChat)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.requireUser).Get("/me", s.handleMe)
	})

	r.Route("/movies", func(r chi.Router) {
		r.With(s.requireAdmin).Get("/", s.handleListMovies)
		r.Get("/search", s.handleSearchMovies)
		r.Get("/{movieID}", s.handleGetMovie)
		r.Get("/{movieID}/cast", s.handleMovieCast)
		r.With(s.requireAdmin).Post("/", s.handleCreateMovie)
		r.With(s.requireAdmin).Put("/{movieID}", s.handleUpdateMovie)
		r.With(s.requireAdmin).Delete("/{movieID}", s.handleDeleteMovie)
		r.With(s.requireAdmin).Post("/{movieID}/cast", s.handleAddCast)
		r.With(s.requireAdmin).Delete("/{movieID}/cast", s.handleRemoveCast)
	})

	r.Route("/ratings", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/me", s.handleMyRatings)
		r.Get("/{movieID}", s.handleMovieRating)
		r.Put("/{movieID}", s.handleRate)
		r.Delete("/{movieID}", s.handleUnrate)
	})

	r.Route("/watchlist", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/", s.handleWatchlist)
		r.Post("/{movieID}", s.handleWatchlistAdd)
		r.Delete("/{movieID}", s.handleWatchlistRemove)
	})

	r.Get("/genres", s.handleGenres)
	r.Get("/people/{personID}", s.handleGetPerson)

	r.Route("/external", func(r chi.Router) {
		r.Get("/omdb", s.handleOMDb)
		r.Get("/trakt/*", s.handleTrakt)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuestion,
		domain.ErrValidation,
		domain.ErrAlreadyExists,
		domain.ErrInvalidCredentials,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		domain.ErrNotFound,
		domain.ErrUpstreamNotConfigured,
		domain.ErrUpstream,
		domain.ErrGeneratorUnavailable,
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// upstreamStatusHandler forwards a non-2xx upstream response with its
// original status code.
func upstreamStatusHandler(w http.ResponseWriter, err error, _ string) bool {
	var upErr *externaluc.UpstreamError
	if !errors.As(err, &upErr) {
		return false
	}
	writeError(w, upErr.Status, codeUpstreamError, upErr.Body)
	return true
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	s.logger.Warn("request error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
