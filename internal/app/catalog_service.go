package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// ProductInput is the admin form for creating or updating a product.
// All fields arrive as submitted strings.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	ImageURL    string
	Stock       string
	CategoryID  string
}

// CatalogService encapsulates category and product use cases.
type CatalogService struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	now        func() time.Time
}

// NewCatalogService creates a CatalogService backed by the given repositories.
func NewCatalogService(categories domain.CategoryRepository, products domain.ProductRepository) *CatalogService {
	return &CatalogService{categories: categories, products: products, now: time.Now}
}

// ListCategories returns all categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

// CreateCategory validates and stores a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	c := &domain.Category{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.categories.CreateCategory(ctx, c); err != nil {
		return nil, categoryWriteError(err)
	}
	return c, nil
}

// UpdateCategory renames a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	c, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.UpdatedAt = s.now().UTC()
	if err := s.categories.UpdateCategory(ctx, c); err != nil {
		return nil, categoryWriteError(err)
	}
	return c, nil
}

// DeleteCategory removes a category. Categories that still hold products
// cannot be deleted.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	err := s.categories.DeleteCategory(ctx, id)
	if errors.Is(err, domain.ErrConflict) {
		return invalid("id", "Bu kategoride ürünler bulunduğu için silinemez")
	}
	return err
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "Kategori adı gereklidir")
	}
	return name, nil
}

func categoryWriteError(err error) error {
	if errors.Is(err, domain.ErrConflict) {
		return invalid("name", "Bu isimde bir kategori zaten mevcut")
	}
	return err
}

// ListProducts returns products newest first, optionally filtered by category.
func (s *CatalogService) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return s.products.ListProducts(ctx, categoryID)
}

// GetProduct returns a single product with its category name.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetProduct(ctx, id)
}

// CreateProduct validates and stores a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p, err := s.validateProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.products.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct replaces every editable field of an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	existing, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.validateProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now().UTC()
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *CatalogService) validateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "Ürün adı gereklidir")
	}
	categoryID := strings.TrimSpace(in.CategoryID)
	if categoryID == "" {
		return nil, invalid("categoryId", "Kategori seçimi gereklidir")
	}
	price, ok := domain.NormalizePrice(in.Price)
	if !ok {
		return nil, invalid("price", "Geçerli bir fiyat giriniz")
	}
	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL == "" {
		return nil, invalid("imageUrl", "Ürün görseli gereklidir")
	}
	if !isHTTPURL(imageURL) && !strings.HasPrefix(imageURL, "/uploads/") {
		return nil, invalid("imageUrl", "Geçerli bir URL giriniz")
	}

	var stock *int
	if v := strings.TrimSpace(in.Stock); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, invalid("stock", "Geçerli bir stok adedi giriniz")
		}
		stock = &n
	}

	category, err := s.categories.GetCategory(ctx, categoryID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, invalid("categoryId", "Seçilen kategori bulunamadı")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup category: %w", err)
	}

	return &domain.Product{
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		Price:        price,
		ImageURL:     imageURL,
		Stock:        stock,
		CategoryID:   category.ID,
		CategoryName: category.Name,
	}, nil
}

func isHTTPURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
