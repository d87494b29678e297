package adapthttp

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/internal/app"
	"storefront/internal/auth"
	"storefront/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const homeProductLimit = 6

var pages = mustParsePages(
	"home.html", "products.html", "product.html", "not_found.html",
	"login.html", "dashboard.html", "admin_categories.html", "admin_products.html", "admin_settings.html",
)

var templateFuncs = template.FuncMap{
	"whatsappLink": func(number string) string {
		var b strings.Builder
		for _, r := range number {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		return "https://wa.me/" + b.String()
	},
}

func mustParsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New(name).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return out
}

type dashboardStats struct {
	Categories int
	Products   int
}

// pageData is the model shared by every HTML page.
type pageData struct {
	Title            string
	Settings         *domain.SiteSettings
	Categories       []domain.Category
	Products         []domain.Product
	Product          *domain.Product
	SelectedCategory string
	Admin            *domain.Claims
	Login            *loginPage
	Stats            *dashboardStats
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	t, ok := pages[name]
	if !ok {
		s.logger.ErrorContext(r.Context(), "unknown template", "name", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data.Admin == nil {
		data.Admin, _ = auth.ClaimsFromContext(r.Context())
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.ErrorContext(r.Context(), "render page", "name", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// siteSettings loads the footer settings; pages still render without them.
func (s *Server) siteSettings(r *http.Request) *domain.SiteSettings {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.logger.WarnContext(r.Context(), "load site settings", "error", err)
		return nil
	}
	return settings
}

func (s *Server) renderServerError(w http.ResponseWriter, r *http.Request, what string, err error) {
	s.logger.ErrorContext(r.Context(), what, "error", err)
	http.Error(w, "Bir hata oluştu", http.StatusInternalServerError)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context(), "")
	if err != nil {
		s.renderServerError(w, r, "list products", err)
		return
	}
	if len(products) > homeProductLimit {
		products = products[:homeProductLimit]
	}
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.renderServerError(w, r, "list categories", err)
		return
	}
	s.render(w, r, http.StatusOK, "home.html", pageData{
		Title:      "Yaşar Granit",
		Settings:   s.siteSettings(r),
		Categories: categories,
		Products:   products,
	})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	products, err := s.catalog.ListProducts(r.Context(), category)
	if err != nil {
		s.renderServerError(w, r, "list products", err)
		return
	}
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.renderServerError(w, r, "list categories", err)
		return
	}
	s.render(w, r, http.StatusOK, "products.html", pageData{
		Title:            "Ürünler",
		Settings:         s.siteSettings(r),
		Categories:       categories,
		Products:         products,
		SelectedCategory: category,
	})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, app.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.renderServerError(w, r, "get product", err)
		return
	}
	s.render(w, r, http.StatusOK, "product.html", pageData{
		Title:    p.Name,
		Settings: s.siteSettings(r),
		Product:  p,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "not_found.html", pageData{Title: "Sayfa bulunamadı"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context(), "")
	if err != nil {
		s.renderServerError(w, r, "list products", err)
		return
	}
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.renderServerError(w, r, "list categories", err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard.html", pageData{
		Title: "Yönetim Paneli",
		Stats: &dashboardStats{Categories: len(categories), Products: len(products)},
	})
}

func (s *Server) handleAdminCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.renderServerError(w, r, "list categories", err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_categories.html", pageData{
		Title:      "Kategoriler",
		Categories: categories,
	})
}

func (s *Server) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context(), "")
	if err != nil {
		s.renderServerError(w, r, "list products", err)
		return
	}
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.renderServerError(w, r, "list categories", err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_products.html", pageData{
		Title:      "Ürünler",
		Categories: categories,
		Products:   products,
	})
}

func (s *Server) handleAdminSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.renderServerError(w, r, "get settings", err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_settings.html", pageData{
		Title:    "Site Ayarları",
		Settings: settings,
	})
}
