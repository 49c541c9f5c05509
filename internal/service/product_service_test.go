package service

import (
	"context"
	"testing"

	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProductSvc() (ProductService, *stubProductRepo, *stubMovementRepo) {
	repo := newStubProductRepo()
	movements := &stubMovementRepo{}
	svc := NewProductService(repo, movements, nil, nil, "")
	return svc, repo, movements
}

func TestProductCreate(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateProductRequest{
		CompanyID: uuid.NewString(),
		SKU:       "SKU-001",
		Name:      "Espresso Beans 1kg",
		Category:  "coffee",
		Price:     decimal.NewFromFloat(18.50),
		CostPrice: decimal.NewFromFloat(9.00),
		Quantity:  40,
	})
	require.NoError(t, err)
	assert.Equal(t, "SKU-001", resp.SKU)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, 40, resp.Quantity)
	// Defaults fill in when the request omits them.
	assert.Equal(t, "unit", resp.Unit)
	assert.Equal(t, 5, resp.MinQuantity)

	_, err = svc.Create(ctx, dto.CreateProductRequest{
		CompanyID: uuid.NewString(),
		SKU:       "SKU-001",
		Name:      "Duplicate",
		Category:  "coffee",
		Price:     decimal.NewFromInt(1),
		CostPrice: decimal.NewFromInt(1),
	})
	assert.Error(t, err, "duplicate SKU must be rejected")
	assert.Len(t, repo.products, 1)
}

func TestProductCreateRejectsNegativePrice(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateProductRequest{
		CompanyID: uuid.NewString(),
		SKU:       "SKU-NEG",
		Name:      "Broken Pricing",
		Category:  "coffee",
		Price:     decimal.NewFromFloat(-5),
		CostPrice: decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, ErrNegativePrice)

	_, err = svc.Create(ctx, dto.CreateProductRequest{
		CompanyID: uuid.NewString(),
		SKU:       "SKU-NEG",
		Name:      "Broken Costing",
		Category:  "coffee",
		Price:     decimal.NewFromInt(1),
		CostPrice: decimal.NewFromFloat(-0.01),
	})
	require.ErrorIs(t, err, ErrNegativePrice)
	assert.Empty(t, repo.products)
}

func TestProductUpdateRejectsNegativePrice(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	ctx := context.Background()
	p := repo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)

	bad := decimal.NewFromFloat(-2.50)
	_, err := svc.Update(ctx, p.ID, dto.UpdateProductRequest{Price: &bad})
	require.ErrorIs(t, err, ErrNegativePrice)
	assert.True(t, repo.products[p.ID].Price.Equal(decimal.NewFromFloat(18.50)))

	_, err = svc.Update(ctx, p.ID, dto.UpdateProductRequest{CostPrice: &bad})
	require.ErrorIs(t, err, ErrNegativePrice)
}

func TestProductCreateDuplicateSKUOfDeactivated(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	ctx := context.Background()
	p := repo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)
	require.NoError(t, svc.Deactivate(ctx, p.ID))

	// A deactivated product still holds its SKU.
	_, err := svc.Create(ctx, dto.CreateProductRequest{
		CompanyID: uuid.NewString(),
		SKU:       "SKU-001",
		Name:      "Replacement",
		Category:  "coffee",
		Price:     decimal.NewFromInt(1),
		CostPrice: decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Len(t, repo.products, 1)
}

func TestProductDecrementQuantity(t *testing.T) {
	svc, repo, movements := buildProductSvc()
	ctx := context.Background()
	p := repo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)

	resp, err := svc.DecrementQuantity(ctx, p.ID, dto.DecrementQuantityRequest{QuantityChange: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Quantity)

	// A decrement larger than what remains is refused and changes nothing.
	_, err = svc.DecrementQuantity(ctx, p.ID, dto.DecrementQuantityRequest{QuantityChange: 10})
	require.ErrorIs(t, err, ErrInsufficientQuantity)
	assert.Equal(t, 6, repo.products[p.ID].Quantity)

	require.Len(t, movements.movements, 1)
	mov := movements.movements[0]
	assert.Equal(t, model.MovementAdjustment, mov.Type)
	assert.Equal(t, -4, mov.Quantity)
	assert.Equal(t, 10, mov.QuantityBefore)
	assert.Equal(t, 6, mov.QuantityAfter)
}

func TestProductDecrementRejectsNonPositive(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	ctx := context.Background()
	p := repo.seed("Espresso Beans 1kg", "SKU-001", 18.50, 10, 2)

	for _, delta := range []int{0, -3} {
		_, err := svc.DecrementQuantity(ctx, p.ID, dto.DecrementQuantityRequest{QuantityChange: delta})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Equal(t, 10, repo.products[p.ID].Quantity)
}

func TestProductDecrementUnknownProduct(t *testing.T) {
	svc, _, _ := buildProductSvc()

	_, err := svc.DecrementQuantity(context.Background(), uuid.New(), dto.DecrementQuantityRequest{QuantityChange: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductAdjustQuantity(t *testing.T) {
	svc, repo, movements := buildProductSvc()
	ctx := context.Background()
	p := repo.seed("Filter Paper", "SKU-002", 4.20, 8, 2)

	resp, err := svc.AdjustQuantity(ctx, p.ID, dto.AdjustQuantityRequest{Delta: 12, Reason: "stocktake correction"})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Quantity)

	resp, err = svc.AdjustQuantity(ctx, p.ID, dto.AdjustQuantityRequest{Delta: -5, Reason: "damaged goods"})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.Quantity)

	// Negative adjustments stay conditional: going below zero is refused.
	_, err = svc.AdjustQuantity(ctx, p.ID, dto.AdjustQuantityRequest{Delta: -100, Reason: "bad count"})
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
	assert.Equal(t, 15, repo.products[p.ID].Quantity)

	require.Len(t, movements.movements, 2)
	assert.Equal(t, "stocktake correction", movements.movements[0].Reason)
	assert.Equal(t, -5, movements.movements[1].Quantity)
}

func TestProductDeactivateReactivate(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	ctx := context.Background()
	p := repo.seed("Filter Paper", "SKU-002", 4.20, 8, 2)

	require.NoError(t, svc.Deactivate(ctx, p.ID))
	assert.Equal(t, "inactive", repo.products[p.ID].Status)

	require.NoError(t, svc.Reactivate(ctx, p.ID))
	assert.Equal(t, "active", repo.products[p.ID].Status)

	assert.ErrorIs(t, svc.Deactivate(ctx, uuid.New()), ErrProductNotFound)
}

func TestProductUpdate(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	ctx := context.Background()
	p := repo.seed("Filter Paper", "SKU-002", 4.20, 8, 2)

	name := "Filter Paper V60"
	price := decimal.NewFromFloat(4.80)
	resp, err := svc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Filter Paper V60", resp.Name)
	assert.True(t, price.Equal(repo.products[p.ID].Price))
	// Untouched fields survive a partial update.
	assert.Equal(t, "SKU-002", repo.products[p.ID].SKU)
	assert.Equal(t, 8, repo.products[p.ID].Quantity)
}
