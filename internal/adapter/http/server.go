// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"storefront/internal/app"
	"storefront/internal/auth"
)

// Deps are the application services the server routes to.
type Deps struct {
	Gate     *auth.Gate
	Auth     *app.AuthService
	Catalog  *app.CatalogService
	Settings *app.SettingsService
	Uploads  *app.UploadService
	// SSO is nil when single sign-on is not configured.
	SSO *SSO
	// UploadDir is served under /uploads/ when set.
	UploadDir string
	Logger    *slog.Logger
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	gate      *auth.Gate
	authSvc   *app.AuthService
	catalog   *app.CatalogService
	settings  *app.SettingsService
	uploads   *app.UploadService
	sso       *SSO
	uploadDir string
	logger    *slog.Logger
}

// New creates a Server wired to the given application services.
func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		gate:      d.Gate,
		authSvc:   d.Auth,
		catalog:   d.Catalog,
		settings:  d.Settings,
		uploads:   d.Uploads,
		sso:       d.SSO,
		uploadDir: d.UploadDir,
		logger:    logger,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)
	r.Use(s.gate.RouteMiddleware)

	r.Get("/", s.handleHome)
	r.Get("/products", s.handleProducts)
	r.Get("/products/{id}", s.handleProduct)
	if s.uploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", noDirListing(http.FileServer(http.Dir(s.uploadDir)))))
	}

	r.Get("/sso/login", s.handleSSOLogin)
	r.Get("/sso/callback", s.handleSSOCallback)

	r.Route("/admin", func(r chi.Router) {
		r.Use(withNoCache)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, auth.DashboardPath, http.StatusSeeOther)
		})
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/dashboard/categories", s.handleAdminCategories)
		r.Get("/dashboard/products", s.handleAdminProducts)
		r.Get("/dashboard/settings", s.handleAdminSettings)
	})

	r.Route("/actions", func(r chi.Router) {
		r.Use(withNoCache)
		r.Use(s.gate.Guard(rejectUnauthorized))
		r.Post("/categories", s.handleCreateCategory)
		r.Put("/categories/{id}", s.handleUpdateCategory)
		r.Delete("/categories/{id}", s.handleDeleteCategory)
		r.Post("/products", s.handleCreateProduct)
		r.Put("/products/{id}", s.handleUpdateProduct)
		r.Delete("/products/{id}", s.handleDeleteProduct)
		r.Put("/settings", s.handleUpdateSettings)
		r.Post("/upload", s.handleUpload)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		r.Get("/categories", s.handleAPICategories)
		r.Get("/products", s.handleAPIProducts)
		r.Get("/products/{id}", s.handleAPIProduct)
		r.Get("/settings", s.handleAPISettings)
	})

	r.NotFound(s.handleNotFound)
	return r
}
