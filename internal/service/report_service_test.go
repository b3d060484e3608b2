package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
	"github.com/rogerio-castellano/warehouse-inventory/internal/repo"
	"github.com/rogerio-castellano/warehouse-inventory/internal/repo/mocks"
)

func TestInventoryReport(t *testing.T) {
	store := repo.NewInMemoryProductRepository()
	svc := NewReportService(store)

	_, err := svc.InventoryReport(t.Context())
	assert.ErrorIs(t, err, ErrEmptyInventory)

	require.NoError(t, store.Insert(t.Context(), models.Product{ID: 1, Name: "A", Price: 0.1, Quantity: 3}))
	require.NoError(t, store.Insert(t.Context(), models.Product{ID: 2, Name: "B", Price: 0.2, Quantity: 0}))

	report, err := svc.InventoryReport(t.Context())
	require.NoError(t, err)
	assert.Equal(t, models.InventoryReport{TotalProducts: 2, TotalQuantity: 3, TotalValue: 0.3}, report)
}

func TestInventoryReportStoreFailure(t *testing.T) {
	boom := errors.New("aggregate failed")
	ctrl := gomock.NewController(t)
	store := mocks.NewMockProductRepository(ctrl)
	store.EXPECT().InventoryReport(gomock.Any()).Return(models.InventoryReport{}, false, boom)

	_, err := NewReportService(store).InventoryReport(t.Context())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrEmptyInventory)
}
