package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/shadowsprint/internal/api/handler"
	apimiddleware "github.com/mcoot/shadowsprint/internal/api/middleware"
	"github.com/mcoot/shadowsprint/internal/middleware"
	"github.com/mcoot/shadowsprint/internal/services/classification"
	"github.com/mcoot/shadowsprint/internal/services/ghost"
	"github.com/mcoot/shadowsprint/internal/services/progress"
	"github.com/mcoot/shadowsprint/internal/services/settings"
	"github.com/mcoot/shadowsprint/internal/storage"
)

const apiPrefix = "/api"

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger                *slog.Logger
	SettingsService       *settings.Service
	ProgressService       *progress.Service
	GhostService          *ghost.Service
	ClassificationService *classification.Service
	Store                 storage.Handle
	CORSAllowedOrigins    []string
	MetricsHandler        http.Handler // defaults to promhttp.Handler()
}

// NewRouter creates a new API router with all routes configured.
// Every route is registered on the root router: mux 1.8.1 subroutes carry the
// prefix as a matcher, and a later prefix hit clears a method mismatch seen on
// an earlier route, turning 405 into 404.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	// Create handlers
	settingsHandler := handler.NewSettingsHandler(cfg.SettingsService)
	progressHandler := handler.NewProgressHandler(cfg.ProgressService)
	ghostHandler := handler.NewGhostHandler(cfg.GhostService)
	classificationHandler := handler.NewClassificationHandler(cfg.ClassificationService)
	healthHandler := handler.NewHealthHandler(cfg.Store, cfg.Logger)

	r.HandleFunc("/", healthHandler.Root).Methods(http.MethodGet)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	r.HandleFunc(apiPrefix+"/health", healthHandler.Health).Methods(http.MethodGet)

	// Settings
	r.HandleFunc(apiPrefix+"/settings/{player_id}", settingsHandler.Get).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/settings/{player_id}", settingsHandler.Update).Methods(http.MethodPost)

	// Levels and progress; unlock is registered before the {player_id} route
	r.HandleFunc(apiPrefix+"/levels", progressHandler.Levels).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/progress/unlock", progressHandler.Unlock).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/progress/{player_id}", progressHandler.Get).Methods(http.MethodGet)

	// Ghosts
	r.HandleFunc(apiPrefix+"/ghost", ghostHandler.Submit).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/ghost/{player_id}/{level}", ghostHandler.Get).Methods(http.MethodGet)

	// Classification
	r.HandleFunc(apiPrefix+"/classification/{player_id}", classificationHandler.Get).Methods(http.MethodGet)

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Wrapped outside mux so unmatched routes and preflights are covered too
	var h http.Handler = r
	h = apimiddleware.Recovery(cfg.Logger)(h)
	h = middleware.Logging(cfg.Logger)(h)
	h = middleware.CORS(origins)(h)
	return middleware.RequestID(h)
}
