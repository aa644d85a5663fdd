// Package products manages the product catalog: listing, creating, updating
// and deleting items. Every route requires an authenticated caller; any
// authenticated caller may modify any product.
package products

import (
	"math"
	"time"

	"github.com/keyxmakerx/stockroom/internal/validate"
)

// Product is one catalog item.
type Product struct {
	ID        string    `json:"id"`
	Price     float64   `json:"price"`
	Brand     string    `json:"brand"`
	Color     string    `json:"color"`
	Category  string    `json:"category"`
	Stock     int       `json:"stock"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductRequest is the body of POST /products and PUT /products/:id.
// Numeric fields are pointers so a missing value is distinguishable from 0.
type ProductRequest struct {
	Price    *float64 `json:"price"`
	Brand    string   `json:"brand"`
	Color    string   `json:"color"`
	Category string   `json:"category"`
	Stock    *int     `json:"stock"`
}

// Column limits of the products table.
const (
	maxBrandLen    = 255
	maxColorLen    = 100
	maxCategoryLen = 100

	// maxPrice is the largest DECIMAL(12,2) value.
	maxPrice = 9999999999.99
	minStock = math.MinInt32
	maxStock = math.MaxInt32
)

// productRules lists the product checks in reporting order.
func productRules(r *ProductRequest) []validate.Rule {
	return []validate.Rule{
		validate.Required("price", r.Price, "Price is required"),
		validate.Within("price", r.Price, -maxPrice, maxPrice, "Price is out of range"),
		validate.String("brand", r.Brand, validate.NotEmpty, "Brand is required"),
		validate.String("brand", r.Brand, validate.MaxLength(maxBrandLen), "Brand must be at most 255 characters"),
		validate.String("color", r.Color, validate.NotEmpty, "Color is required"),
		validate.String("color", r.Color, validate.MaxLength(maxColorLen), "Color must be at most 100 characters"),
		validate.String("category", r.Category, validate.NotEmpty, "Category is required"),
		validate.String("category", r.Category, validate.MaxLength(maxCategoryLen), "Category must be at most 100 characters"),
		validate.Required("stock", r.Stock, "Stock is required"),
		validate.Within("stock", r.Stock, minStock, maxStock, "Stock is out of range"),
	}
}

// roundCents rounds to the two decimals the price column stores, so what a
// write returns matches what a later read sees.
func roundCents(price float64) float64 {
	return math.Round(price*100) / 100
}

// ProductInput is the validated input for creating or replacing a product.
type ProductInput struct {
	Price    float64
	Brand    string
	Color    string
	Category string
	Stock    int
}

// toInput converts a validated request. Callers run productRules first.
func (r *ProductRequest) toInput() ProductInput {
	return ProductInput{
		Price:    *r.Price,
		Brand:    r.Brand,
		Color:    r.Color,
		Category: r.Category,
		Stock:    *r.Stock,
	}
}
