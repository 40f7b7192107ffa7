// Package webhook is the HTTP driving adapter: it terminates the GitHub
// webhook and chat-platform interaction endpoints and hands verified,
// normalized requests to the application layer.
package webhook

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/forgebyte/relaybot/internal/application"
	"github.com/forgebyte/relaybot/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter.
type Handler struct {
	dispatcher   *application.Dispatcher
	admin        *application.AdminService
	limiter      *application.RateLimiter
	chat         driven.ChatClient
	githubSecret string
	publicKey    string
	logger       *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	dispatcher *application.Dispatcher,
	admin *application.AdminService,
	limiter *application.RateLimiter,
	chat driven.ChatClient,
	githubSecret string,
	publicKey string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		dispatcher:   dispatcher,
		admin:        admin,
		limiter:      limiter,
		chat:         chat,
		githubSecret: githubSecret,
		publicKey:    publicKey,
		logger:       logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /webhooks/github", h.GitHubWebhook)
	mux.HandleFunc("POST /webhooks/interactions", h.Interactions)
	mux.HandleFunc("GET /health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
