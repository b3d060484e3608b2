package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
)

//go:generate mockgen -destination=mocks/mock_product_repository.go -package=mocks . ProductRepository

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, products []models.Product) (int, error)
	Insert(ctx context.Context, product models.Product) error
	Find(ctx context.Context, filter ProductFilter, sort SortSpec) ([]models.Product, error)
	FindByID(ctx context.Context, id int) (models.Product, error)
	FindByName(ctx context.Context, name string) (models.Product, error)
	NextID(ctx context.Context) (int, error)
	Update(ctx context.Context, product models.Product) (bool, error)
	Delete(ctx context.Context, id int) (int64, error)
	InventoryReport(ctx context.Context) (models.InventoryReport, bool, error)
	Ping(ctx context.Context) error
}

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateName is returned when a write would break name uniqueness.
	ErrDuplicateName = errors.New("duplicate product name")
	// ErrDuplicateID is returned when a write would break domain id uniqueness.
	ErrDuplicateID = errors.New("duplicate product id")
)
