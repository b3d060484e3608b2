package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// Products are kept in insertion order, which doubles as internal key order.
type InMemoryProductRepository struct {
	mu        sync.RWMutex
	products  []models.Product
	highWater int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
	}
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	if pf.MinPrice != nil && p.Price < *pf.MinPrice {
		return false
	}
	if pf.MaxPrice != nil && p.Price > *pf.MaxPrice {
		return false
	}
	if pf.MinQuantity != nil && p.Quantity < *pf.MinQuantity {
		return false
	}
	if pf.MaxQuantity != nil && p.Quantity > *pf.MaxQuantity {
		return false
	}
	return true
}

// lessByField reports whether a sorts before b on field. Unknown fields
// compare equal, leaving the stable insertion order in place.
func lessByField(a, b models.Product, field string) bool {
	switch field {
	case "name":
		return a.Name < b.Name
	case "price":
		return a.Price < b.Price
	case "description":
		return a.Description < b.Description
	case "quantity":
		return a.Quantity < b.Quantity
	case "unit":
		return a.Unit < b.Unit
	default:
		return false
	}
}

// Count returns the number of stored products.
func (r *InMemoryProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// InsertMany adds a batch of products, rejecting the whole batch on a conflict.
func (r *InMemoryProductRepository) InsertMany(_ context.Context, products []models.Product) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make(map[string]struct{}, len(r.products)+len(products))
	ids := make(map[int]struct{}, len(r.products)+len(products))
	for _, p := range r.products {
		names[p.Name] = struct{}{}
		ids[p.ID] = struct{}{}
	}
	for _, p := range products {
		if _, ok := names[p.Name]; ok {
			return 0, ErrDuplicateName
		}
		if _, ok := ids[p.ID]; ok {
			return 0, ErrDuplicateID
		}
		names[p.Name] = struct{}{}
		ids[p.ID] = struct{}{}
	}

	for _, p := range products {
		p.ObjectID = primitive.NewObjectID()
		r.products = append(r.products, p)
	}
	return len(products), nil
}

// Insert adds a new product to the repository.
func (r *InMemoryProductRepository) Insert(_ context.Context, product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.Name == product.Name {
			return ErrDuplicateName
		}
		if p.ID == product.ID {
			return ErrDuplicateID
		}
	}
	product.ObjectID = primitive.NewObjectID()
	r.products = append(r.products, product)
	return nil
}

// Find returns the products matching filter, ordered by sort.
func (r *InMemoryProductRepository) Find(_ context.Context, filter ProductFilter, spec SortSpec) ([]models.Product, error) {
	r.mu.RLock()
	filtered := []models.Product{}
	for _, p := range r.products {
		if matchesFilter(p, filter) {
			filtered = append(filtered, p)
		}
	}
	r.mu.RUnlock()

	if spec.Field != InternalKeyField {
		sort.SliceStable(filtered, func(i, j int) bool {
			return lessByField(filtered[i], filtered[j], spec.Field)
		})
	}
	return filtered, nil
}

// FindByID retrieves a product by its domain ID.
func (r *InMemoryProductRepository) FindByID(_ context.Context, id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// FindByName retrieves a product by its exact name.
func (r *InMemoryProductRepository) FindByName(_ context.Context, name string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.Name == name {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// NextID hands out the next domain ID. IDs of deleted products are never
// handed out again.
func (r *InMemoryProductRepository) NextID(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID > r.highWater {
			r.highWater = p.ID
		}
	}
	r.highWater++
	return r.highWater, nil
}

// Update replaces the mutable fields of an existing product.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.products {
		if p.ID == product.ID {
			idx = i
			continue
		}
		if p.Name == product.Name {
			return false, ErrDuplicateName
		}
	}
	if idx < 0 {
		return false, ErrProductNotFound
	}

	current := r.products[idx]
	product.ObjectID = current.ObjectID
	if current == product {
		return false, nil
	}
	r.products[idx] = product
	return true, nil
}

// Delete removes a product by its domain ID and reports how many were removed.
func (r *InMemoryProductRepository) Delete(_ context.Context, id int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// InventoryReport aggregates count, quantity and stock value.
func (r *InMemoryProductRepository) InventoryReport(_ context.Context) (models.InventoryReport, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.products) == 0 {
		return models.InventoryReport{}, false, nil
	}

	var report models.InventoryReport
	value := decimal.Zero
	for _, p := range r.products {
		report.TotalProducts++
		report.TotalQuantity += int64(p.Quantity)
		value = value.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	report.TotalValue = value.InexactFloat64()
	return report, true, nil
}

// Ping always succeeds.
func (r *InMemoryProductRepository) Ping(_ context.Context) error {
	return nil
}
