package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
	"github.com/rogerio-castellano/warehouse-inventory/internal/repo"
)

// idAttempts bounds id allocation retries when a concurrent insert claimed
// the same id first.
const idAttempts = 5

// ProductInput carries the five client writable fields. Zero values mean the
// field was missing or falsy in the request.
type ProductInput struct {
	Name        string
	Price       float64
	Description string
	Quantity    int
	Unit        string
}

// ListParams holds the parsed listing query.
type ListParams struct {
	Filter repo.ProductFilter
	SortBy string
}

// ProductService handles listing and mutation of products.
type ProductService struct {
	products repo.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(products repo.ProductRepository) *ProductService {
	return &ProductService{
		products: products,
		validate: newValidator(),
	}
}

// ListProducts returns every product matching the filter in the requested order.
func (s *ProductService) ListProducts(ctx context.Context, params ListParams) ([]models.Product, error) {
	products, err := s.products.Find(ctx, params.Filter, repo.SortBy(params.SortBy))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

// AddProduct validates and stores a new product under the next domain id.
func (s *ProductService) AddProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := s.validate.Struct(newProduct(in)); err != nil {
		return models.Product{}, validationError(err)
	}

	if _, err := s.products.FindByName(ctx, in.Name); err == nil {
		return models.Product{}, ErrDuplicateName
	} else if !errors.Is(err, repo.ErrProductNotFound) {
		return models.Product{}, fmt.Errorf("find product by name: %w", err)
	}

	product := models.Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
	}
	for range idAttempts {
		id, err := s.products.NextID(ctx)
		if err != nil {
			return models.Product{}, fmt.Errorf("allocate product id: %w", err)
		}
		product.ID = id

		err = s.products.Insert(ctx, product)
		switch {
		case err == nil:
			slog.InfoContext(ctx, "product added", "id", product.ID, "name", product.Name)
			return product, nil
		case errors.Is(err, repo.ErrDuplicateName):
			return models.Product{}, ErrDuplicateName
		case errors.Is(err, repo.ErrDuplicateID):
			slog.WarnContext(ctx, "product id already taken, retrying", "id", id)
		default:
			return models.Product{}, fmt.Errorf("insert product: %w", err)
		}
	}
	return models.Product{}, fmt.Errorf("allocate product id: %w", repo.ErrDuplicateID)
}

// UpdateProduct merges the non-zero fields of patch into the stored product.
// It reports whether the stored document changed.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, patch ProductInput) (bool, error) {
	existing, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrProductNotFound) {
		return false, ErrProductNotFound
	}
	if err != nil {
		return false, fmt.Errorf("find product %d: %w", id, err)
	}

	if err := s.validate.Struct(productPatch{Price: patch.Price, Quantity: patch.Quantity}); err != nil {
		return false, validationError(err)
	}

	merged := mergeProduct(existing, patch)
	modified, err := s.products.Update(ctx, merged)
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		return false, ErrProductNotFound
	case errors.Is(err, repo.ErrDuplicateName):
		return false, ErrDuplicateName
	case err != nil:
		return false, fmt.Errorf("update product %d: %w", id, err)
	}

	if modified {
		slog.InfoContext(ctx, "product updated", "id", id)
	} else {
		slog.InfoContext(ctx, "product left unchanged", "id", id)
	}
	return modified, nil
}

func mergeProduct(existing models.Product, patch ProductInput) models.Product {
	merged := existing
	if patch.Name != "" {
		merged.Name = patch.Name
	}
	if patch.Price != 0 {
		merged.Price = patch.Price
	}
	if patch.Description != "" {
		merged.Description = patch.Description
	}
	if patch.Quantity != 0 {
		merged.Quantity = patch.Quantity
	}
	if patch.Unit != "" {
		merged.Unit = patch.Unit
	}
	return merged
}

// DeleteProduct removes a product that still has stock.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	existing, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrProductNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("find product %d: %w", id, err)
	}

	if existing.Quantity == 0 {
		return ErrZeroQuantity
	}

	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if deleted == 0 {
		slog.ErrorContext(ctx, "product not deleted", "id", id)
		return ErrStoreAnomaly
	}

	slog.InfoContext(ctx, "product deleted", "id", id)
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *ProductService) Ping(ctx context.Context) error {
	return s.products.Ping(ctx)
}
