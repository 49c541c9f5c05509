package service

import (
	"context"
	"testing"
	"time"

	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWarehouseSvc() (WarehouseService, *stubWarehouseRepo, *stubStockRepo, *stubProductRepo) {
	warehouseRepo := newStubWarehouseRepo()
	stockRepo := newStubStockRepo()
	productRepo := newStubProductRepo()
	stockSvc := NewStockService(stockRepo, productRepo, &stubMovementRepo{})
	svc := NewWarehouseService(warehouseRepo, stockRepo, stockSvc)
	return svc, warehouseRepo, stockRepo, productRepo
}

func shortenSnapshotRetry(t *testing.T) {
	t.Helper()
	prev := snapshotRetryDelay
	snapshotRetryDelay = time.Millisecond
	t.Cleanup(func() { snapshotRetryDelay = prev })
}

func TestWarehouseCreateAndUpdate(t *testing.T) {
	svc, repo, _, _ := buildWarehouseSvc()
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateWarehouseRequest{
		CompanyID: uuid.NewString(),
		Name:      "Central",
		Location:  "12 Dock Road",
		ManagerID: uuid.NewString(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Central", resp.Name)

	id := uuid.MustParse(resp.ID)
	name := "Central North"
	updated, err := svc.Update(ctx, id, dto.UpdateWarehouseRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Central North", updated.Name)
	assert.Equal(t, "12 Dock Road", repo.warehouses[id].Location, "partial update keeps other fields")

	_, err = svc.Update(ctx, uuid.New(), dto.UpdateWarehouseRequest{Name: &name})
	assert.ErrorIs(t, err, ErrWarehouseNotFound)
}

func TestWarehouseAssignProduct(t *testing.T) {
	svc, warehouseRepo, stockRepo, productRepo := buildWarehouseSvc()
	ctx := context.Background()
	w := warehouseRepo.seed("Central")
	p := productRepo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 50, 5)

	_, err := svc.AssignProduct(ctx, w.ID, dto.AssignProductRequest{
		ProductID:       p.ID.String(),
		InitialQuantity: 20,
	})
	require.NoError(t, err)

	// The link exists and the seed quantity came out of the catalog count.
	_, err = warehouseRepo.FindAssignment(ctx, w.ID, p.ID)
	require.NoError(t, err)
	st, err := stockRepo.FindByLocationAndProduct(ctx, model.LocationWarehouse, w.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, st.Quantity)
	assert.Equal(t, 30, productRepo.products[p.ID].Quantity)

	_, err = svc.AssignProduct(ctx, w.ID, dto.AssignProductRequest{ProductID: p.ID.String()})
	assert.Error(t, err, "assigning the same product twice is refused")
}

func TestWarehouseAssignProductWithoutSeed(t *testing.T) {
	svc, warehouseRepo, stockRepo, productRepo := buildWarehouseSvc()
	ctx := context.Background()
	w := warehouseRepo.seed("Central")
	p := productRepo.seed("Filter Paper", "SKU-002", 4.20, 8, 2)

	_, err := svc.AssignProduct(ctx, w.ID, dto.AssignProductRequest{ProductID: p.ID.String()})
	require.NoError(t, err)

	_, err = stockRepo.FindByLocationAndProduct(ctx, model.LocationWarehouse, w.ID, p.ID)
	assert.Error(t, err, "no stock row without an initial quantity")
	assert.Equal(t, 8, productRepo.products[p.ID].Quantity)
}

func TestWarehouseSnapshot(t *testing.T) {
	svc, warehouseRepo, stockRepo, productRepo := buildWarehouseSvc()
	ctx := context.Background()
	w := warehouseRepo.seed("Central")
	p := productRepo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 50, 5)
	stockRepo.seed(model.LocationWarehouse, w.ID, p.ID, 35)

	snap, err := svc.Snapshot(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Central", snap.Warehouse.Name)
	require.Len(t, snap.Stock, 1)
	assert.Equal(t, 35, snap.Stock[0].Quantity)
}

func TestWarehouseSnapshotRetriesTransientFailures(t *testing.T) {
	shortenSnapshotRetry(t)
	svc, warehouseRepo, _, _ := buildWarehouseSvc()
	w := warehouseRepo.seed("Central")

	// First two reads fail, the third succeeds within the retry budget.
	warehouseRepo.findErrs = 2
	snap, err := svc.Snapshot(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Central", snap.Warehouse.Name)
}

func TestWarehouseSnapshotNotFound(t *testing.T) {
	shortenSnapshotRetry(t)
	svc, _, _, _ := buildWarehouseSvc()

	_, err := svc.Snapshot(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrWarehouseNotFound)
}

func TestWarehouseDelete(t *testing.T) {
	svc, warehouseRepo, _, _ := buildWarehouseSvc()
	ctx := context.Background()
	w := warehouseRepo.seed("Central")

	require.NoError(t, svc.Delete(ctx, w.ID))
	assert.Empty(t, warehouseRepo.warehouses)
	assert.ErrorIs(t, svc.Delete(ctx, w.ID), ErrWarehouseNotFound)
}
