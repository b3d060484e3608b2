package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
	"github.com/rogerio-castellano/warehouse-inventory/internal/repo"
)

//go:embed products.json
var bundledProducts []byte

// Result describes what a seed run did.
type Result struct {
	Inserted int  `json:"inserted"`
	Skipped  bool `json:"skipped"`
}

// Source reads the raw seed document. An empty path selects the bundled list.
func Source(path string) ([]byte, error) {
	if path == "" {
		return bundledProducts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return data, nil
}

// Parse decodes a seed document and assigns domain ids in file order.
func Parse(data []byte) ([]models.Product, error) {
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode seed products: %w", err)
	}
	for i := range products {
		products[i].ID = i + 1
	}
	return products, nil
}

// Load inserts the seed products when the collection is empty. A populated
// collection is left untouched.
func Load(ctx context.Context, products repo.ProductRepository, data []byte) (Result, error) {
	count, err := products.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		slog.InfoContext(ctx, "collection already contains products, skipping seed", "count", count)
		return Result{Skipped: true}, nil
	}

	batch, err := Parse(data)
	if err != nil {
		return Result{}, err
	}
	if len(batch) == 0 {
		slog.WarnContext(ctx, "seed file holds no products")
		return Result{}, nil
	}

	inserted, err := products.InsertMany(ctx, batch)
	if err != nil {
		return Result{}, fmt.Errorf("insert seed products: %w", err)
	}
	slog.InfoContext(ctx, "seed products inserted", "inserted", inserted)
	return Result{Inserted: inserted}, nil
}
