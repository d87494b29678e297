package adapthttp

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/app"
)

const msgBadRequest = "Geçersiz istek"

var (
	categoryCreateMsgs = actionMessages{failed: "Kategori oluşturulurken bir hata oluştu"}
	categoryUpdateMsgs = actionMessages{notFound: "Kategori bulunamadı", failed: "Kategori güncellenirken bir hata oluştu"}
	categoryDeleteMsgs = actionMessages{notFound: "Kategori bulunamadı", failed: "Kategori silinirken bir hata oluştu"}
	productCreateMsgs  = actionMessages{failed: "Ürün oluşturulurken bir hata oluştu"}
	productUpdateMsgs  = actionMessages{notFound: "Ürün bulunamadı", failed: "Ürün güncellenirken bir hata oluştu"}
	productDeleteMsgs  = actionMessages{notFound: "Ürün bulunamadı", failed: "Ürün silinirken bir hata oluştu"}
	settingsUpdateMsgs = actionMessages{failed: "Ayarlar güncellenirken bir hata oluştu"}
	uploadMsgs         = actionMessages{failed: "Dosya yüklenirken bir hata oluştu"}
)

var productFields = []string{"name", "description", "price", "imageUrl", "stock", "categoryId"}

func productInput(v map[string]string) app.ProductInput {
	return app.ProductInput{
		Name:        v["name"],
		Description: v["description"],
		Price:       v["price"],
		ImageURL:    v["imageUrl"],
		Stock:       v["stock"],
		CategoryID:  v["categoryId"],
	}
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	v, err := formValues(r, "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if _, err := s.catalog.CreateCategory(r.Context(), v["name"]); err != nil {
		s.writeActionError(w, r, err, categoryCreateMsgs)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	v, err := formValues(r, "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if _, err := s.catalog.UpdateCategory(r.Context(), chi.URLParam(r, "id"), v["name"]); err != nil {
		s.writeActionError(w, r, err, categoryUpdateMsgs)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeActionError(w, r, err, categoryDeleteMsgs)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	v, err := formValues(r, productFields...)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if _, err := s.catalog.CreateProduct(r.Context(), productInput(v)); err != nil {
		s.writeActionError(w, r, err, productCreateMsgs)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	v, err := formValues(r, productFields...)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if _, err := s.catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), productInput(v)); err != nil {
		s.writeActionError(w, r, err, productUpdateMsgs)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeActionError(w, r, err, productDeleteMsgs)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	v, err := formValues(r, "whatsappNumber", "instagramUrl", "facebookUrl", "twitterUrl")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	_, err = s.settings.Update(r.Context(), app.SettingsInput{
		WhatsappNumber: v["whatsappNumber"],
		InstagramURL:   v["instagramUrl"],
		FacebookURL:    v["facebookUrl"],
		TwitterURL:     v["twitterUrl"],
	})
	if err != nil {
		s.writeActionError(w, r, err, settingsUpdateMsgs)
		return
	}
	writeSuccess(w)
}

// multipart overhead allowed on top of the image itself
const uploadFormSlack = 1 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize+uploadFormSlack)
	if err := r.ParseMultipartForm(app.MaxUploadSize + uploadFormSlack); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "Dosya boyutu 5MB'dan küçük olmalıdır")
			return
		}
		writeError(w, http.StatusBadRequest, "Dosya seçilmedi")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Dosya seçilmedi")
		return
	}
	defer file.Close()

	url, err := s.uploads.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		s.writeActionError(w, r, err, uploadMsgs)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}
