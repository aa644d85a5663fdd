package products

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/stockroom/internal/apperror"
	"github.com/keyxmakerx/stockroom/internal/sanitize"
)

// ProductService defines the business logic contract for the catalog.
type ProductService interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, userID string, input ProductInput) (*Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*Product, error)
	Delete(ctx context.Context, id string) (*Product, error)
}

// productService implements ProductService. Reads go through the list
// cache; every successful write invalidates it.
type productService struct {
	repo  ProductRepository
	cache ListCache
	now   func() time.Time
}

// NewProductService creates a new product service.
func NewProductService(repo ProductRepository, cache ListCache) ProductService {
	if cache == nil {
		cache = noopListCache{}
	}
	return &productService{repo: repo, cache: cache, now: time.Now}
}

// List returns the whole catalog. Cache errors are logged and the database
// answers instead. The cache generation is read before the database so a
// write committed meanwhile invalidates what this call stores.
func (s *productService) List(ctx context.Context) ([]Product, error) {
	cached, gen, ok, cacheErr := s.cache.Get(ctx)
	if cacheErr != nil {
		slog.Warn("product cache read failed", slog.Any("error", cacheErr))
	}
	if ok {
		return cached, nil
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing products: %w", err))
	}

	// Without a known generation the entry could outlive a write.
	if cacheErr == nil {
		if err := s.cache.Set(ctx, gen, products); err != nil {
			slog.Warn("product cache write failed", slog.Any("error", err))
		}
	}
	return products, nil
}

// Create stores a new product recorded against the calling user.
func (s *productService) Create(ctx context.Context, userID string, input ProductInput) (*Product, error) {
	input, err := cleanInput(input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second)
	p := &Product{
		ID:        uuid.NewString(),
		Price:     input.Price,
		Brand:     input.Brand,
		Color:     input.Color,
		Category:  input.Category,
		Stock:     input.Stock,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating product: %w", err))
	}
	s.invalidate(ctx)

	slog.Info("product created",
		slog.String("product_id", p.ID),
		slog.String("created_by", userID),
	)
	return p, nil
}

// Update replaces the editable fields of product id and returns the result.
func (s *productService) Update(ctx context.Context, id string, input ProductInput) (*Product, error) {
	input, err := cleanInput(input)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr("finding product", err)
	}

	p.Price = input.Price
	p.Brand = input.Brand
	p.Color = input.Color
	p.Category = input.Category
	p.Stock = input.Stock
	p.UpdatedAt = s.now().UTC().Truncate(time.Second)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, wrapRepoErr("updating product", err)
	}
	s.invalidate(ctx)

	slog.Info("product updated", slog.String("product_id", p.ID))
	return p, nil
}

// Delete removes product id and returns it as it was before removal.
func (s *productService) Delete(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, wrapRepoErr("deleting product", err)
	}
	s.invalidate(ctx)

	slog.Info("product deleted", slog.String("product_id", p.ID))
	return p, nil
}

func (s *productService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.Warn("product cache invalidation failed", slog.Any("error", err))
	}
}

// cleanInput strips markup from the text fields and rounds the price to
// cents. A field that was only markup is treated as missing.
func cleanInput(in ProductInput) (ProductInput, error) {
	in.Price = roundCents(in.Price)
	in.Brand = sanitize.Text(in.Brand)
	in.Color = sanitize.Text(in.Color)
	in.Category = sanitize.Text(in.Category)

	switch {
	case in.Brand == "":
		return in, apperror.NewValidation("Brand is required")
	case in.Color == "":
		return in, apperror.NewValidation("Color is required")
	case in.Category == "":
		return in, apperror.NewValidation("Category is required")
	}
	return in, nil
}

// wrapRepoErr passes NotFound through and hides everything else behind a 500.
func wrapRepoErr(action string, err error) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(msgProductNotFound)
	}
	return apperror.NewInternal(fmt.Errorf("%s: %w", action, err))
}
