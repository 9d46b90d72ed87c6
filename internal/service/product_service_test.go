package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (ProductService, *repository.FileStore) {
	t.Helper()
	store := repository.NewFileStore(filepath.Join(t.TempDir(), "products.json"))
	return NewProductService(store), store
}

func candidate(sku, name string, price float64) domain.Product {
	return domain.Product{
		SKU:         sku,
		Name:        name,
		Description: "test product",
		Category:    "mobiles",
		Brand:       "Redmi",
		Price:       price,
		Currency:    domain.Currency,
		Stock:       10,
		IsActive:    true,
		Rating:      4.0,
		Seller: domain.Seller{
			ID:      uuid.New(),
			Name:    "Redmi Store",
			Email:   "support@mistore.in",
			Website: "https://mistore.in",
		},
		Dimensions: domain.Dimensions{Length: 10, Width: 5, Height: 1},
	}
}

func TestCreateThenGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.SKU, got.SKU)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Price, got.Price)
	assert.Equal(t, created.Seller, got.Seller)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateAssignsServerFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c := candidate("abc-123", "Phone A", 1000)
	c.ID = uuid.MustParse("394d40e7-2a95-445d-8738-c6af6be5a97e")
	c.CreatedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(ctx, c)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, created.ID)
	assert.True(t, created.CreatedAt.After(c.CreatedAt))
}

func TestCreateDuplicateSKUConflict(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)

	before, err := store.Load(ctx)
	require.NoError(t, err)

	_, err = svc.Create(ctx, candidate("abc-123", "Phone B", 500))
	assert.ErrorIs(t, err, ErrSKUConflict)

	// collection unchanged after the conflict
	after, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	c := candidate("abc-123", "Phone A", 1000)
	c.Stock = 0
	c.IsActive = true

	_, err := svc.Create(ctx, c)
	assert.True(t, domain.IsValidationError(err))

	after, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestGetAbsentIDNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListEmptyCatalogNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), ListParams{Limit: 10})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListNameFilterNoMatchNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)

	_, err = svc.List(ctx, ListParams{Name: "laptop", Limit: 10})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListNameFilterIsCaseInsensitiveAndTrimmed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, candidate("abc-123", "Redmi Note 12", 1000))
	require.NoError(t, err)
	_, err = svc.Create(ctx, candidate("xyz-456", "ThinkPad X1", 50000))
	require.NoError(t, err)

	result, err := svc.List(ctx, ListParams{Name: "  REDMI \t", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Redmi Note 12", result.Items[0].Name)
}

func TestListSortByPriceDescending(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := candidate("abc-123", "Phone A", 1000)
	a.DiscountPercent = 10
	_, err := svc.Create(ctx, a)
	require.NoError(t, err)

	b := candidate("xyz-456", "Phone B", 500)
	b.DiscountPercent = 0
	_, err = svc.Create(ctx, b)
	require.NoError(t, err)

	result, err := svc.List(ctx, ListParams{SortByPrice: true, Order: "desc", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "abc-123", result.Items[0].SKU)
	assert.Equal(t, "xyz-456", result.Items[1].SKU)
	assert.Equal(t, 900.0, result.Items[0].FinalPrice())
}

func TestListUnknownOrderSortsAscending(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)
	_, err = svc.Create(ctx, candidate("xyz-456", "Phone B", 500))
	require.NoError(t, err)

	result, err := svc.List(ctx, ListParams{SortByPrice: true, Order: "sideways", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "xyz-456", result.Items[0].SKU)
}

func TestListOutOfRangeOffsetKeepsTotal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)
	_, err = svc.Create(ctx, candidate("xyz-456", "Phone B", 500))
	require.NoError(t, err)

	result, err := svc.List(ctx, ListParams{Limit: 10, Offset: 50})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Empty(t, result.Items)
}

func TestUpdateSparsePriceOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)

	price := 500.0
	updated, err := svc.Update(ctx, created.ID, domain.ProductUpdate{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, 500.0, updated.Price)
	assert.Equal(t, 500.0, updated.FinalPrice())
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.SKU, updated.SKU)
	assert.Equal(t, created.Stock, updated.Stock)
	assert.Equal(t, created.Seller, updated.Seller)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestUpdateWithNoFieldsIsNoOp(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)

	before, err := store.Load(ctx)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, domain.ProductUpdate{})
	require.NoError(t, err)
	assert.Equal(t, created.SKU, updated.SKU)
	assert.Equal(t, created.Price, updated.Price)

	after, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateNestedSellerMerge(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)

	name := "NewName"
	updated, err := svc.Update(ctx, created.ID, domain.ProductUpdate{
		Seller: &domain.SellerUpdate{Name: &name},
	})
	require.NoError(t, err)

	assert.Equal(t, "NewName", updated.Seller.Name)
	assert.Equal(t, created.Seller.Email, updated.Seller.Email)
	assert.Equal(t, created.Seller.Website, updated.Seller.Website)
	assert.Equal(t, created.Seller.ID, updated.Seller.ID)
}

func TestUpdateAbsentIDNotFoundAfterFullScan(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// several records so the scan has to pass the first one
	for _, c := range []domain.Product{
		candidate("abc-123", "Phone A", 1000),
		candidate("xyz-456", "Phone B", 500),
		candidate("def-789", "Phone C", 750),
	} {
		_, err := svc.Create(ctx, c)
		require.NoError(t, err)
	}

	price := 100.0
	_, err := svc.Update(ctx, uuid.New(), domain.ProductUpdate{Price: &price})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateRejectsInvalidMergeResult(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)

	before, err := store.Load(ctx)
	require.NoError(t, err)

	// stock 0 while the record stays active violates an invariant
	stock := 0
	_, err = svc.Update(ctx, created.ID, domain.ProductUpdate{Stock: &stock})
	assert.True(t, domain.IsValidationError(err))

	after, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteReturnsRemovedRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)

	result, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, result.Removed.ID)
	assert.NotEmpty(t, result.Message)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteAbsentIDNotFoundLeavesCollection(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)

	before, err := store.Load(ctx)
	require.NoError(t, err)

	_, err = svc.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)

	after, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeletePreservesRemainingOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, candidate("abc-123", "Phone A", 1000))
	require.NoError(t, err)
	b, err := svc.Create(ctx, candidate("xyz-456", "Phone B", 500))
	require.NoError(t, err)
	c, err := svc.Create(ctx, candidate("def-789", "Phone C", 750))
	require.NoError(t, err)

	_, err = svc.Delete(ctx, b.ID)
	require.NoError(t, err)

	result, err := svc.List(ctx, ListParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, a.ID, result.Items[0].ID)
	assert.Equal(t, c.ID, result.Items[1].ID)
}
