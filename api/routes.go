package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/butchersbasket/api/config"
	rh "github.com/butchersbasket/api/route-handlers"
	"github.com/butchersbasket/api/webutil"
)

const (
	productsBasePath  = "/product"
	flashSaleBasePath = "/flash-sale"
)

const paramID = "id" // General parameter name for resource IDs

func SetupRoutes(
	cfg *config.Config,
	authHandler *rh.AuthHandler,
	productHandler *rh.ResourceHandler,
	flashSaleHandler *rh.ResourceHandler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                      // Log every request
	r.Use(middleware.Recoverer)                   // Recover from panics
	r.Use(middleware.Timeout(cfg.RequestTimeout)) // Set a timeout context for requests
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{webutil.HeaderContentType, webutil.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Liveness probe
	r.Get("/", handleLiveness)

	// Auth
	r.Post("/register", webutil.MakeHandler(authHandler.HandleRegister))
	r.Post("/login", webutil.MakeHandler(authHandler.HandleLogin))

	// Resource collections
	configureResourceRoutes(r, productsBasePath, productHandler)
	configureResourceRoutes(r, flashSaleBasePath, flashSaleHandler)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

func configureResourceRoutes(r chi.Router, basePath string, handler *rh.ResourceHandler) {
	specificResourcePath := pathWithParam("", paramID) // e.g., "/{id}"

	r.Route(basePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleList))
		r.Post("/", webutil.MakeHandler(handler.HandleCreate))
		r.Route(specificResourcePath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGet))
			if handler.Type().Mutable {
				r.Patch("/", webutil.MakeHandler(handler.HandleUpdate))
				r.Delete("/", webutil.MakeHandler(handler.HandleDelete))
			}
		})
	})
}

// handleLiveness reports that the process is up. No dependencies are
// checked.
func handleLiveness(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message":   "Server is running smoothly",
		"timestamp": time.Now().UTC(),
	})
}
