package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"inferd/internal/config"
	"inferd/internal/engine"
	"inferd/internal/manager"
	"inferd/pkg/types"
)

// Service defines the manager methods required by the HTTP API layer.
type Service interface {
	IsLoaded() bool
	ChatComplete(ctx context.Context, messages []engine.Message, p engine.Params) (engine.Result, error)
	Reload(ctx context.Context) error
}

// maxBodyBytes caps JSON request bodies at 1 MiB.
const maxBodyBytes int64 = 1 << 20

type server struct {
	svc      Service
	cfg      config.Config
	log      zerolog.Logger
	userKeys map[string]struct{}
}

// NewMux builds the router with all endpoints and middlewares.
func NewMux(svc Service, cfg config.Config, log zerolog.Logger) http.Handler {
	s := &server{svc: svc, cfg: cfg, log: log, userKeys: make(map[string]struct{}, len(cfg.APIKeys))}
	for _, k := range cfg.APIKeys {
		s.userKeys[k] = struct{}{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(Recoverer(log))
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	// Allow-all CORS, matching the original deployment posture.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(requireUserKey(s.userKeys))
		r.Get("/v1/models", s.handleListModels)
		r.Post("/v1/chat/completions", s.handleChatCompletions)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAdminKey(cfg.AdminAPIKey))
		r.Get("/info", s.handleAdminInfo)
		r.Post("/reload", s.handleAdminReload)
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handleRoot godoc
// @Summary  API information
// @Produce  json
// @Success  200 {object} map[string]any
// @Router   / [get]
func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"name":   "inferd",
		"model":  s.cfg.ModelName,
		"status": "running",
		"endpoints": map[string]string{
			"health":           "GET /health",
			"models":           "GET /v1/models",
			"chat_completions": "POST /v1/chat/completions",
			"admin_info":       "GET /admin/info",
			"admin_reload":     "POST /admin/reload",
		},
	})
}

// handleHealth godoc
// @Summary  Health check; reports model state, never fails on it
// @Produce  json
// @Success  200 {object} types.HealthResponse
// @Router   /health [get]
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.HealthResponse{Status: "ok", ModelLoaded: s.svc.IsLoaded()})
}

// handleListModels godoc
// @Summary  List available models (OpenAI-compatible)
// @Produce  json
// @Security ApiKeyAuth
// @Success  200 {object} types.ModelsResponse
// @Failure  401 {object} types.ErrorResponse
// @Router   /v1/models [get]
func (s *server) handleListModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.ModelsResponse{
		Object: "list",
		Data:   []types.ModelInfo{{ID: s.cfg.ModelName, Object: "model", OwnedBy: "local"}},
	})
}

// handleChatCompletions godoc
// @Summary  Create a chat completion (OpenAI-compatible)
// @Accept   json
// @Produce  json
// @Security ApiKeyAuth
// @Param    request body types.ChatCompletionRequest true "chat request"
// @Success  200 {object} types.ChatCompletionResponse
// @Failure  401 {object} types.ErrorResponse
// @Failure  422 {object} types.ValidationErrorResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /v1/chat/completions [post]
func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", "invalid_request_error")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	// Request defaults; fields present in the body overwrite them.
	req := types.ChatCompletionRequest{Temperature: 0.7, MaxTokens: 500, TopP: 1.0}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request_error")
		return
	}
	if fieldErrs := validateChatRequest(req); len(fieldErrs) > 0 {
		writeValidationError(w, fieldErrs)
		return
	}

	messages := make([]engine.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = engine.Message{Role: m.Role, Content: m.Content}
	}
	params := engine.Params{
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stop:        req.Stop,
	}

	res, err := s.svc.ChatComplete(r.Context(), messages, params)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.writeManagerError(w, err)
		return
	}

	role := "assistant"
	finish := res.FinishReason
	if finish == "" {
		finish = "stop"
	}
	writeJSON(w, types.ChatCompletionResponse{
		ID:      newCompletionID(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   s.cfg.ModelName,
		Choices: []types.Choice{{
			Index:        0,
			Message:      types.Message{Role: role, Content: res.Content},
			FinishReason: finish,
		}},
		Usage: types.Usage{
			PromptTokens:     res.Usage.PromptTokens,
			CompletionTokens: res.Usage.CompletionTokens,
			TotalTokens:      res.Usage.TotalTokens,
		},
	})
}

// handleAdminInfo godoc
// @Summary  Server and model information
// @Produce  json
// @Security AdminKeyAuth
// @Success  200 {object} types.ServerInfo
// @Failure  401 {object} types.ErrorResponse
// @Failure  403 {object} types.ErrorResponse
// @Router   /admin/info [get]
func (s *server) handleAdminInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.ServerInfo{
		ModelName:   s.cfg.ModelName,
		ModelPath:   s.cfg.ModelPath,
		NCtx:        s.cfg.NCtx,
		NGPULayers:  s.cfg.NGPULayers,
		ModelLoaded: s.svc.IsLoaded(),
	})
}

// handleAdminReload godoc
// @Summary  Reload the model
// @Produce  json
// @Security AdminKeyAuth
// @Success  200 {object} types.ReloadResponse
// @Failure  401 {object} types.ErrorResponse
// @Failure  403 {object} types.ErrorResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /admin/reload [post]
func (s *server) handleAdminReload(w http.ResponseWriter, r *http.Request) {
	s.log.Info().Msg("admin requested model reload")
	if err := s.svc.Reload(r.Context()); err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.writeManagerError(w, err)
		return
	}
	writeJSON(w, types.ReloadResponse{Status: "success", Message: "Model reloaded successfully"})
}

// writeManagerError maps manager/engine errors to HTTP status codes.
func (s *server) writeManagerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNotBuilt):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error(), "engine_unavailable")
	case manager.IsLoadError(err):
		writeJSONError(w, http.StatusInternalServerError, err.Error(), "model_load_error")
	case manager.IsGenerationError(err):
		writeJSONError(w, http.StatusInternalServerError, err.Error(), "generation_error")
	default:
		s.log.Error().Err(err).Msg("unexpected error")
		writeJSONError(w, http.StatusInternalServerError, "Internal server error", "internal_error")
	}
}

// newCompletionID synthesizes an OpenAI-style response identifier.
func newCompletionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "chatcmpl-" + hex[:12]
}
