package adapthttp

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/app"
	"storefront/internal/domain"
)

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "Kategoriler yüklenemedi")
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleAPIProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list products", "error", err)
		writeError(w, http.StatusInternalServerError, "Ürünler yüklenemedi")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleAPIProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, app.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Ürün bulunamadı")
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "get product", "error", err)
		writeError(w, http.StatusInternalServerError, "Ürün yüklenemedi")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAPISettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "get settings", "error", err)
		writeError(w, http.StatusInternalServerError, "Ayarlar yüklenemedi")
		return
	}
	// null until the first save
	writeJSON(w, http.StatusOK, settings)
}
