package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keyxmakerx/stockroom/internal/apperror"
)

// msgProductNotFound is the client-facing message for unknown product ids.
const msgProductNotFound = "Product not found"

// productColumns is the column list shared by every product SELECT.
const productColumns = `id, price, brand, color, category, stock, created_by, created_at, updated_at`

// ProductRepository defines the data access contract for products.
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (*Product, error)
}

// productRepository implements ProductRepository with MariaDB queries.
type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (*Product, error) {
	p := &Product{}
	err := s.Scan(
		&p.ID, &p.Price, &p.Brand, &p.Color, &p.Category, &p.Stock,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every product, oldest first. An empty catalog is an empty
// slice, never nil, so it serializes as [].
func (r *productRepository) List(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

// FindByID returns one product or apperror.NotFound.
func (r *productRepository) FindByID(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound(msgProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}
	return p, nil
}

// Create inserts a new product row.
func (r *productRepository) Create(ctx context.Context, p *Product) error {
	query := `INSERT INTO products (` + productColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Price, p.Brand, p.Color, p.Category, p.Stock,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

// Update replaces the editable fields of an existing product. Returns
// apperror.NotFound when no row has the id.
func (r *productRepository) Update(ctx context.Context, p *Product) error {
	query := `UPDATE products
	          SET price = ?, brand = ?, color = ?, category = ?, stock = ?, updated_at = ?
	          WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		p.Price, p.Brand, p.Color, p.Category, p.Stock, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	// MariaDB reports matched rows only when CLIENT_FOUND_ROWS is set, so an
	// unchanged row looks like a miss here. Confirm before reporting 404.
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		if _, err := r.FindByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a product and returns the row as it was. The read and the
// delete share a transaction so the returned row is the one removed.
func (r *productRepository) Delete(ctx context.Context, id string) (*Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ? FOR UPDATE`
	p, err := scanProduct(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound(msgProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing delete: %w", err)
	}
	return p, nil
}
