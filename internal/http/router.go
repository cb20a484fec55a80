package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/florinmsk/shop-api/internal/auth"
	"github.com/florinmsk/shop-api/internal/authz"
	"github.com/florinmsk/shop-api/internal/category"
	"github.com/florinmsk/shop-api/internal/config"
	"github.com/florinmsk/shop-api/internal/httputil"
	"github.com/florinmsk/shop-api/internal/logging"
	"github.com/florinmsk/shop-api/internal/product"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	authMiddleware *auth.Middleware,
	policy authz.Policy,
	categoryHandler *category.Handler,
	productHandler *product.Handler,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	} else {
		log.Println("Swagger UI disabled (production mode)")
	}

	r.Route("/v1", func(r chi.Router) {
		// Public auth routes
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Protected routes (require a valid bearer token)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Post("/logout", authHandler.Logout)
			r.Post("/logout-all", authHandler.LogoutAll)

			r.Route("/category", func(r chi.Router) {
				r.Use(authz.Require(policy, "manage", "category"))
				r.Get("/", categoryHandler.Index)
				r.Post("/", categoryHandler.Store)
				r.Get("/{id}", categoryHandler.Show)
				r.Put("/{id}", categoryHandler.Update)
				r.Delete("/{id}", categoryHandler.Destroy)
			})

			r.Route("/product", func(r chi.Router) {
				r.Use(authz.Require(policy, "manage", "product"))
				r.Get("/", productHandler.Index)
				r.Post("/", productHandler.Store)
				r.Get("/{id}", productHandler.Show)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Destroy)
			})
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
