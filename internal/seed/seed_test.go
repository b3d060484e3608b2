package seed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
	"github.com/rogerio-castellano/warehouse-inventory/internal/repo"
	"github.com/rogerio-castellano/warehouse-inventory/internal/repo/mocks"
)

func TestParseAssignsIDsInFileOrder(t *testing.T) {
	products, err := Parse([]byte(`[
		{"name":"B","price":1,"description":"b","quantity":2,"unit":"kg"},
		{"name":"A","price":3.5,"description":"a","quantity":4,"unit":"pcs"}
	]`))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "B", products[0].Name)
	assert.Equal(t, 2, products[1].ID)
	assert.Equal(t, 3.5, products[1].Price)
}

func TestParseIgnoresIDsInTheFile(t *testing.T) {
	products, err := Parse([]byte(`[{"id":40,"name":"A","price":1,"description":"a","quantity":1,"unit":"kg"}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, products[0].ID)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"name":"not an array"}`))
	assert.Error(t, err)
}

func TestSourceBundled(t *testing.T) {
	data, err := Source("")
	require.NoError(t, err)

	products, err := Parse(data)
	require.NoError(t, err)
	assert.Len(t, products, 10)

	names := map[string]bool{}
	for _, p := range products {
		assert.False(t, names[p.Name], "duplicate bundled name %q", p.Name)
		names[p.Name] = true
		assert.Positive(t, p.Quantity)
		assert.Positive(t, p.Price)
	}
}

func TestSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	data, err := Source(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = Source(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadIntoEmptyStore(t *testing.T) {
	store := repo.NewInMemoryProductRepository()
	data, err := Source("")
	require.NoError(t, err)

	res, err := Load(t.Context(), store, data)
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 10}, res)

	p, err := store.FindByID(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Wheat flour", p.Name)
}

func TestLoadSkipsPopulatedStore(t *testing.T) {
	store := repo.NewInMemoryProductRepository()
	require.NoError(t, store.Insert(t.Context(), models.Product{ID: 1, Name: "Existing", Price: 1, Description: "d", Quantity: 1, Unit: "kg"}))

	res, err := Load(t.Context(), store, []byte(`not json at all`))
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	count, _ := store.Count(t.Context())
	assert.EqualValues(t, 1, count)
}

func TestLoadEmptyDocument(t *testing.T) {
	store := repo.NewInMemoryProductRepository()

	res, err := Load(t.Context(), store, []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestLoadMalformedDocument(t *testing.T) {
	store := repo.NewInMemoryProductRepository()

	_, err := Load(t.Context(), store, []byte(`[{"name":`))
	assert.Error(t, err)
}

func TestLoadStoreFailures(t *testing.T) {
	boom := errors.New("connection refused")

	t.Run("count", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockProductRepository(ctrl)
		store.EXPECT().Count(gomock.Any()).Return(int64(0), boom)

		_, err := Load(t.Context(), store, []byte(`[]`))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("insert", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockProductRepository(ctrl)
		store.EXPECT().Count(gomock.Any()).Return(int64(0), nil)
		store.EXPECT().InsertMany(gomock.Any(), gomock.Len(1)).Return(0, boom)

		_, err := Load(t.Context(), store, []byte(`[{"name":"A","price":1,"description":"a","quantity":1,"unit":"kg"}]`))
		assert.ErrorIs(t, err, boom)
	})
}
