// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu         sync.Mutex
	users      []*domain.User
	categories map[string]domain.Category
	products   map[string]domain.Product
	settings   *domain.SiteSettings
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		categories: make(map[string]domain.Category),
		products:   make(map[string]domain.Product),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.CategoryRepository = (*DB)(nil)
var _ domain.ProductRepository = (*DB)(nil)
var _ domain.SettingsRepository = (*DB)(nil)

// --- UserRepository ---

// GetByEmail retrieves a user by exact email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	// Return nil if not found
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, u *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	cp := *u
	db.users = append(db.users, &cp)
	return nil
}

// --- CategoryRepository ---

// ListCategories returns all categories ordered by name.
func (db *DB) ListCategories(ctx context.Context) ([]domain.Category, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Category, 0, len(db.categories))
	for _, c := range db.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// GetCategory retrieves a category by ID.
func (db *DB) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// CreateCategory stores a new category. Names are unique.
func (db *DB) CreateCategory(ctx context.Context, c *domain.Category) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.nameTaken(c.Name, "") {
		return domain.ErrConflict
	}
	db.categories[c.ID] = *c
	return nil
}

// UpdateCategory renames a category.
func (db *DB) UpdateCategory(ctx context.Context, c *domain.Category) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	existing, ok := db.categories[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if db.nameTaken(c.Name, c.ID) {
		return domain.ErrConflict
	}
	existing.Name = c.Name
	existing.UpdatedAt = c.UpdatedAt
	db.categories[c.ID] = existing
	return nil
}

// DeleteCategory removes a category that holds no products.
func (db *DB) DeleteCategory(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range db.products {
		if p.CategoryID == id {
			return domain.ErrConflict
		}
	}
	delete(db.categories, id)
	return nil
}

// nameTaken must be called with mu held.
func (db *DB) nameTaken(name, exceptID string) bool {
	for id, c := range db.categories {
		if id != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

// --- ProductRepository ---

// ListProducts returns products newest first, optionally filtered by category.
func (db *DB) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Product, 0, len(db.products))
	for _, p := range db.products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		result = append(result, db.withCategoryName(p))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetProduct retrieves a product by ID.
func (db *DB) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = db.withCategoryName(p)
	return &p, nil
}

// CreateProduct stores a new product. The category must exist.
func (db *DB) CreateProduct(ctx context.Context, p *domain.Product) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.categories[p.CategoryID]; !ok {
		return domain.ErrConflict
	}
	db.products[p.ID] = cloneProduct(*p)
	return nil
}

// UpdateProduct replaces a product.
func (db *DB) UpdateProduct(ctx context.Context, p *domain.Product) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	existing, ok := db.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := db.categories[p.CategoryID]; !ok {
		return domain.ErrConflict
	}
	cp := cloneProduct(*p)
	cp.CreatedAt = existing.CreatedAt
	db.products[p.ID] = cp
	return nil
}

// DeleteProduct removes a product.
func (db *DB) DeleteProduct(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(db.products, id)
	return nil
}

// withCategoryName must be called with mu held.
func (db *DB) withCategoryName(p domain.Product) domain.Product {
	p = cloneProduct(p)
	if c, ok := db.categories[p.CategoryID]; ok {
		p.CategoryName = c.Name
	}
	return p
}

func cloneProduct(p domain.Product) domain.Product {
	if p.Stock != nil {
		n := *p.Stock
		p.Stock = &n
	}
	return p
}

// --- SettingsRepository ---

// GetSettings returns the stored settings, or nil before the first save.
func (db *DB) GetSettings(ctx context.Context) (*domain.SiteSettings, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.settings == nil {
		return nil, nil
	}
	cp := *db.settings
	return &cp, nil
}

// SaveSettings creates or replaces the settings.
func (db *DB) SaveSettings(ctx context.Context, s *domain.SiteSettings) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	cp := *s
	db.settings = &cp
	return nil
}
