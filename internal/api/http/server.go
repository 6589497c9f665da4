package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appNotification "github.com/roamswap/roamswap/internal/application/notification"
	appSwap "github.com/roamswap/roamswap/internal/application/swap"
	domainSwap "github.com/roamswap/roamswap/internal/domain/swap"
	"github.com/roamswap/roamswap/internal/domain/user"
	"github.com/roamswap/roamswap/internal/infrastructure/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	swapSvc         *appSwap.Service
	notificationSvc *appNotification.Service
	entitlements    user.Entitlements
	verifier        *TokenVerifier
	hub             *sse.Hub
	logger          zerolog.Logger
}

func NewServer(
	swapSvc *appSwap.Service,
	notificationSvc *appNotification.Service,
	entitlements user.Entitlements,
	verifier *TokenVerifier,
	hub *sse.Hub,
	logger zerolog.Logger,
) *Server {
	return &Server{
		swapSvc:         swapSvc,
		notificationSvc: notificationSvc,
		entitlements:    entitlements,
		verifier:        verifier,
		hub:             hub,
		logger:          logger.With().Str("component", "http").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/swaps", func(r chi.Router) {
				r.With(s.requireSubscription).Post("/", s.createSwap)
				r.Get("/", s.listSwaps)
				r.Get("/conflicts", s.checkConflicts)
				r.Get("/{swapId}", s.getSwap)
				r.Patch("/{swapId}/status", s.updateSwapStatus)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.listNotifications)
				r.Get("/stream", s.streamNotifications)
				r.Get("/unread-count", s.unreadNotificationCount)
				r.Post("/read-all", s.markAllNotificationsRead)
				r.Post("/{notificationId}/read", s.markNotificationRead)
			})
		})
	})

	return r
}

// Helpers

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondSwapError maps engine error kinds to stable response codes.
func respondSwapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainSwap.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, domainSwap.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domainSwap.ErrNotAuthorized):
		respondError(w, http.StatusForbidden, "NOT_AUTHORIZED", err.Error())
	case errors.Is(err, domainSwap.ErrPaymentRequired):
		respondError(w, http.StatusPaymentRequired, "PAYMENT_REQUIRED", err.Error())
	case errors.Is(err, domainSwap.ErrInvalidState):
		respondError(w, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, domainSwap.ErrConflict):
		respondError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, domainSwap.ErrTransient):
		w.Header().Set("Retry-After", "1")
		respondError(w, http.StatusServiceUnavailable, "TRANSIENT", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
