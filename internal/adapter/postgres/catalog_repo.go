package postgres

import (
	"context"
	"database/sql"

	"storefront/internal/domain"
)

// ListCategories returns all categories ordered by name.
func (d *DB) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at FROM categories ORDER BY name ASC;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCategory retrieves a category by ID.
func (d *DB) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM categories WHERE id = $1;", id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// CreateCategory inserts a category. A duplicate name yields ErrConflict.
func (d *DB) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO categories(id, name, created_at, updated_at) VALUES($1, $2, $3, $4);",
		c.ID, c.Name, c.CreatedAt, c.UpdatedAt,
	)
	return mapError(err)
}

// UpdateCategory renames a category.
func (d *DB) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return mustAffect(d.sql.ExecContext(ctx,
		"UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1;",
		c.ID, c.Name, c.UpdatedAt,
	))
}

// DeleteCategory removes a category. The products foreign key rejects
// deleting a category that still holds products.
func (d *DB) DeleteCategory(ctx context.Context, id string) error {
	return mustAffect(d.sql.ExecContext(ctx, "DELETE FROM categories WHERE id = $1;", id))
}

const productColumns = `p.id, p.name, p.description, p.price::text, p.image_url, p.stock,
	p.category_id, c.name, p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var stock sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &stock,
		&p.CategoryID, &p.CategoryName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	if stock.Valid {
		n := int(stock.Int64)
		p.Stock = &n
	}
	return p, nil
}

func nullableStock(stock *int) sql.NullInt64 {
	if stock == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*stock), Valid: true}
}

// ListProducts returns products newest first, optionally filtered by category.
func (d *DB) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+productColumns+` FROM products p JOIN categories c ON c.id = p.category_id
		WHERE ($1 = '' OR p.category_id = $1) ORDER BY p.created_at DESC;`,
		categoryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProduct retrieves a product by ID.
func (d *DB) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products p JOIN categories c ON c.id = p.category_id WHERE p.id = $1;",
		id,
	)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// CreateProduct inserts a product.
func (d *DB) CreateProduct(ctx context.Context, p *domain.Product) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO products(id, name, description, price, image_url, stock, category_id, created_at, updated_at)
		VALUES($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9);`,
		p.ID, p.Name, p.Description, p.Price, p.ImageURL, nullableStock(p.Stock), p.CategoryID, p.CreatedAt, p.UpdatedAt,
	)
	return mapError(err)
}

// UpdateProduct replaces every editable field of a product.
func (d *DB) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return mustAffect(d.sql.ExecContext(ctx,
		`UPDATE products SET name = $2, description = $3, price = $4::numeric, image_url = $5,
		stock = $6, category_id = $7, updated_at = $8 WHERE id = $1;`,
		p.ID, p.Name, p.Description, p.Price, p.ImageURL, nullableStock(p.Stock), p.CategoryID, p.UpdatedAt,
	))
}

// DeleteProduct removes a product.
func (d *DB) DeleteProduct(ctx context.Context, id string) error {
	return mustAffect(d.sql.ExecContext(ctx, "DELETE FROM products WHERE id = $1;", id))
}
