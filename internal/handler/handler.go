package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/marelvy/linkpulse/internal/errors"
	"github.com/marelvy/linkpulse/internal/middleware"
	"github.com/marelvy/linkpulse/internal/model"
	"github.com/marelvy/linkpulse/internal/service"
	"github.com/marelvy/linkpulse/internal/validator"
)

// recordTimeout bounds the detached click-recording write after the
// redirect response has already gone out.
const recordTimeout = 5 * time.Second

// URLHandler handles HTTP requests for alias and analytics operations
type URLHandler struct {
	service   *service.Service
	validator *validator.URLValidator
	log       Logger
}

// Logger is the slice of the app logger the handler needs.
type Logger interface {
	Error(msg string, args ...any)
}

// NewURLHandler creates a new handler instance
func NewURLHandler(svc *service.Service, log Logger) *URLHandler {
	return &URLHandler{
		service:   svc,
		validator: validator.NewURLValidator(),
		log:       log,
	}
}

// ============ HANDLERS ============

// HandleShorten creates a new short URL
// POST /api/shorten
func (h *URLHandler) HandleShorten(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		errors.Unauthorized("").WriteJSON(w)
		return
	}

	var req model.CreateAliasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.InvalidJSON(err.Error()).WriteJSON(w)
		return
	}

	if appErr := h.validator.ValidateURL(req.URL); appErr != nil {
		appErr.WriteJSON(w)
		return
	}
	if appErr := h.validator.ValidateCustomAlias(req.CustomAlias); appErr != nil {
		appErr.WriteJSON(w)
		return
	}

	resp, err := h.service.CreateShortURL(r.Context(), ownerID, req)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrEmptyURL):
			errors.MissingField("url").WriteJSON(w)
		case stderrors.Is(err, service.ErrInvalidURL):
			errors.InvalidURL("URL must be valid http/https").WriteJSON(w)
		case stderrors.Is(err, service.ErrInvalidAlias):
			errors.BadRequest("Alias must be 3-20 alphanumeric characters").WriteJSON(w)
		case stderrors.Is(err, service.ErrAliasExists):
			errors.AliasExists(req.CustomAlias).WriteJSON(w)
		default:
			errors.StorageError().WriteJSON(w)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// HandleRedirect resolves the alias and sends the client on its way.
// The click is recorded in the background so the redirect never waits
// on the store write; a recording failure is logged, not surfaced.
// GET /{alias}
func (h *URLHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	alias := r.PathValue("alias")

	if appErr := h.validator.ValidateAlias(alias); appErr != nil {
		appErr.WriteJSON(w)
		return
	}

	longURL, err := h.service.Resolve(r.Context(), alias)
	if err != nil {
		if stderrors.Is(err, service.ErrNotFound) {
			errors.AliasNotFound(alias).WriteJSON(w)
			return
		}
		errors.StorageError().WriteJSON(w)
		return
	}

	click := service.ClickContext{
		UserAgent: r.UserAgent(),
		IP:        middleware.ClientIP(r),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := h.service.RecordClick(ctx, alias, click); err != nil {
			h.log.Error("failed to record click", "alias", alias, "error", err.Error())
		}
	}()

	http.Redirect(w, r, longURL, http.StatusFound)
}

// HandleAliasAnalytics returns the aggregate for one alias
// GET /api/analytics/{alias}
func (h *URLHandler) HandleAliasAnalytics(w http.ResponseWriter, r *http.Request) {
	alias := r.PathValue("alias")

	if appErr := h.validator.ValidateAlias(alias); appErr != nil {
		appErr.WriteJSON(w)
		return
	}

	stats, err := h.service.AliasAnalytics(r.Context(), alias)
	if err != nil {
		if stderrors.Is(err, service.ErrNotFound) {
			errors.AliasNotFound(alias).WriteJSON(w)
			return
		}
		errors.StorageError().WriteJSON(w)
		return
	}

	writeJSON(w, stats)
}

// HandleTopicAnalytics returns the aggregate for one owner topic
// GET /api/analytics/topic/{topic}
func (h *URLHandler) HandleTopicAnalytics(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		errors.Unauthorized("").WriteJSON(w)
		return
	}

	stats, err := h.service.TopicAnalytics(r.Context(), ownerID, r.PathValue("topic"))
	if err != nil {
		errors.StorageError().WriteJSON(w)
		return
	}

	writeJSON(w, stats)
}

// HandleOverallAnalytics returns the aggregate over the owner's aliases
// GET /api/analytics/overall
func (h *URLHandler) HandleOverallAnalytics(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		errors.Unauthorized("").WriteJSON(w)
		return
	}

	stats, err := h.service.OverallAnalytics(r.Context(), ownerID)
	if err != nil {
		errors.StorageError().WriteJSON(w)
		return
	}

	writeJSON(w, stats)
}

// HandleHealth returns service health status
// GET /health
func (h *URLHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// ============ ROUTER SETUP ============

// SetupRoutes configures all HTTP routes. auth guards the API surface;
// limit (optional) throttles alias creation only, matching where the
// write amplification is.
func (h *URLHandler) SetupRoutes(auth middleware.Middleware, limit middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	shorten := middleware.Chain(http.HandlerFunc(h.HandleShorten), auth)
	if limit != nil {
		shorten = middleware.Chain(shorten, limit)
	}
	mux.Handle("POST /api/shorten", shorten)

	mux.Handle("GET /api/analytics/overall",
		middleware.Chain(http.HandlerFunc(h.HandleOverallAnalytics), auth))
	mux.Handle("GET /api/analytics/topic/{topic}",
		middleware.Chain(http.HandlerFunc(h.HandleTopicAnalytics), auth))
	mux.Handle("GET /api/analytics/{alias}",
		middleware.Chain(http.HandlerFunc(h.HandleAliasAnalytics), auth))

	mux.HandleFunc("GET /health", h.HandleHealth)

	// Catch-all redirect; specific routes above win on precedence
	mux.HandleFunc("GET /{alias}", h.HandleRedirect)

	return mux
}
