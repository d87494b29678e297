package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
)

type mockCategoryRepo struct {
	listFn   func(ctx context.Context) ([]domain.Category, error)
	getFn    func(ctx context.Context, id string) (*domain.Category, error)
	createFn func(ctx context.Context, c *domain.Category) error
	updateFn func(ctx context.Context, c *domain.Category) error
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockCategoryRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepo) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCategoryRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepo) UpdateCategory(ctx context.Context, c *domain.Category) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepo) DeleteCategory(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockProductRepo struct {
	listFn   func(ctx context.Context, categoryID string) ([]domain.Product, error)
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	createFn func(ctx context.Context, p *domain.Product) error
	updateFn func(ctx context.Context, p *domain.Product) error
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockProductRepo) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	if m.listFn != nil {
		return m.listFn(ctx, categoryID)
	}
	return nil, nil
}

func (m *mockProductRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockProductRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func graniteCategory() *mockCategoryRepo {
	return &mockCategoryRepo{getFn: func(ctx context.Context, id string) (*domain.Category, error) {
		if id == "c1" {
			return &domain.Category{ID: "c1", Name: "Granit"}, nil
		}
		return nil, domain.ErrNotFound
	}}
}

func validProduct() ProductInput {
	return ProductInput{
		Name:       "Mezar Taşı",
		Price:      "1500,5",
		ImageURL:   "/uploads/1700000000000-tas.jpg",
		Stock:      "3",
		CategoryID: "c1",
	}
}

func assertValidation(t *testing.T, err error, field, msg string) {
	t.Helper()
	ve, ok := IsValidation(err)
	if !ok {
		t.Fatalf("expected validation error on %s, got %v", field, err)
	}
	if ve.Field != field || ve.Message != msg {
		t.Errorf("got %s/%q; want %s/%q", ve.Field, ve.Message, field, msg)
	}
}

func TestCatalogService_CreateCategory(t *testing.T) {
	var stored *domain.Category
	repo := &mockCategoryRepo{createFn: func(ctx context.Context, c *domain.Category) error {
		stored = c
		return nil
	}}
	svc := NewCatalogService(repo, &mockProductRepo{})

	c, err := svc.CreateCategory(context.Background(), "  Mermer ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stored != c || c.Name != "Mermer" || c.ID == "" {
		t.Errorf("unexpected category %+v", c)
	}
}

func TestCatalogService_CreateCategory_Validation(t *testing.T) {
	writes := 0
	repo := &mockCategoryRepo{createFn: func(ctx context.Context, c *domain.Category) error {
		writes++
		return domain.ErrConflict
	}}
	svc := NewCatalogService(repo, &mockProductRepo{})

	_, err := svc.CreateCategory(context.Background(), "   ")
	assertValidation(t, err, "name", "Kategori adı gereklidir")
	if writes != 0 {
		t.Error("blank name must not reach the store")
	}

	_, err = svc.CreateCategory(context.Background(), "Granit")
	assertValidation(t, err, "name", "Bu isimde bir kategori zaten mevcut")
}

func TestCatalogService_UpdateCategory(t *testing.T) {
	repo := graniteCategory()
	var updated *domain.Category
	repo.updateFn = func(ctx context.Context, c *domain.Category) error {
		updated = c
		return nil
	}
	svc := NewCatalogService(repo, &mockProductRepo{})

	if _, err := svc.UpdateCategory(context.Background(), "c1", "Doğal Granit"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated == nil || updated.Name != "Doğal Granit" {
		t.Errorf("unexpected update %+v", updated)
	}

	_, err := svc.UpdateCategory(context.Background(), "missing", "X")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_DeleteCategory_WithProducts(t *testing.T) {
	repo := &mockCategoryRepo{deleteFn: func(ctx context.Context, id string) error {
		return domain.ErrConflict
	}}
	svc := NewCatalogService(repo, &mockProductRepo{})

	err := svc.DeleteCategory(context.Background(), "c1")
	assertValidation(t, err, "id", "Bu kategoride ürünler bulunduğu için silinemez")
}

func TestCatalogService_CreateProduct(t *testing.T) {
	var stored *domain.Product
	products := &mockProductRepo{createFn: func(ctx context.Context, p *domain.Product) error {
		stored = p
		return nil
	}}
	svc := NewCatalogService(graniteCategory(), products)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	p, err := svc.CreateProduct(context.Background(), validProduct())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stored != p {
		t.Fatal("product not stored")
	}
	if p.Price != "1500.50" {
		t.Errorf("expected normalized price 1500.50, got %q", p.Price)
	}
	if p.Stock == nil || *p.Stock != 3 {
		t.Errorf("expected stock 3, got %v", p.Stock)
	}
	if p.CategoryName != "Granit" {
		t.Errorf("expected category name Granit, got %q", p.CategoryName)
	}
	if !p.CreatedAt.Equal(svc.now()) {
		t.Errorf("unexpected created_at %v", p.CreatedAt)
	}
}

func TestCatalogService_CreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ProductInput)
		field string
		msg   string
	}{
		{"missing name", func(in *ProductInput) { in.Name = " " }, "name", "Ürün adı gereklidir"},
		{"missing category", func(in *ProductInput) { in.CategoryID = "" }, "categoryId", "Kategori seçimi gereklidir"},
		{"bad price", func(in *ProductInput) { in.Price = "12abc" }, "price", "Geçerli bir fiyat giriniz"},
		{"negative price", func(in *ProductInput) { in.Price = "-5" }, "price", "Geçerli bir fiyat giriniz"},
		{"missing image", func(in *ProductInput) { in.ImageURL = "" }, "imageUrl", "Ürün görseli gereklidir"},
		{"relative image", func(in *ProductInput) { in.ImageURL = "tas.jpg" }, "imageUrl", "Geçerli bir URL giriniz"},
		{"javascript image", func(in *ProductInput) { in.ImageURL = "javascript:alert(1)" }, "imageUrl", "Geçerli bir URL giriniz"},
		{"negative stock", func(in *ProductInput) { in.Stock = "-1" }, "stock", "Geçerli bir stok adedi giriniz"},
		{"fractional stock", func(in *ProductInput) { in.Stock = "1.5" }, "stock", "Geçerli bir stok adedi giriniz"},
		{"unknown category", func(in *ProductInput) { in.CategoryID = "nope" }, "categoryId", "Seçilen kategori bulunamadı"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			writes := 0
			products := &mockProductRepo{createFn: func(ctx context.Context, p *domain.Product) error {
				writes++
				return nil
			}}
			svc := NewCatalogService(graniteCategory(), products)
			in := validProduct()
			tc.edit(&in)

			_, err := svc.CreateProduct(context.Background(), in)
			assertValidation(t, err, tc.field, tc.msg)
			if writes != 0 {
				t.Error("invalid product must not be stored")
			}
		})
	}
}

func TestCatalogService_CreateProduct_OptionalFields(t *testing.T) {
	svc := NewCatalogService(graniteCategory(), &mockProductRepo{})
	in := validProduct()
	in.Stock = ""
	in.ImageURL = "https://cdn.example.com/tas.jpg"

	p, err := svc.CreateProduct(context.Background(), in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Stock != nil {
		t.Errorf("expected nil stock, got %d", *p.Stock)
	}
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var updated *domain.Product
	products := &mockProductRepo{
		getFn: func(ctx context.Context, id string) (*domain.Product, error) {
			if id != "p1" {
				return nil, domain.ErrNotFound
			}
			return &domain.Product{ID: "p1", CreatedAt: created}, nil
		},
		updateFn: func(ctx context.Context, p *domain.Product) error {
			updated = p
			return nil
		},
	}
	svc := NewCatalogService(graniteCategory(), products)

	if _, err := svc.UpdateProduct(context.Background(), "p1", validProduct()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated == nil || updated.ID != "p1" || !updated.CreatedAt.Equal(created) {
		t.Errorf("unexpected update %+v", updated)
	}

	_, err := svc.UpdateProduct(context.Background(), "gone", validProduct())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
