package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, stock int64) (*Memory, int64) {
	t.Helper()
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SeedCategories(ctx, DefaultCategories))
	cats, err := m.Categories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cats)
	require.NoError(t, m.CreateProduct(ctx, ProductFields{
		Name:       "Pizza",
		Price:      decimal.NewFromInt(500),
		Quantity:   stock,
		Image:      "file-1",
		CategoryID: cats[0].ID,
	}))
	products, err := m.ProductsByCategory(ctx, cats[0].ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	return m, products[0].ID
}

func totalReserved(t *testing.T, m *Memory, users []int64, productID int64) int64 {
	t.Helper()
	var total int64
	for _, u := range users {
		lines, err := m.UserCart(context.Background(), u)
		require.NoError(t, err)
		for _, line := range lines {
			if line.ProductID == productID {
				total += line.Quantity
			}
		}
	}
	return total
}

func TestAddToCartStopsAtZeroStock(t *testing.T) {
	m, productID := newTestStore(t, 3)
	ctx := context.Background()
	users := []int64{101, 102, 103}

	for _, u := range users {
		ok, err := m.AddToCart(ctx, u, productID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := m.AddToCart(ctx, 104, productID)
	require.NoError(t, err)
	assert.False(t, ok, "fourth add must be refused")

	p, err := m.Product(ctx, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, p.Quantity)
	assert.EqualValues(t, 3, totalReserved(t, m, users, productID))
}

func TestStockConservation(t *testing.T) {
	m, productID := newTestStore(t, 5)
	ctx := context.Background()
	const user = int64(7)

	check := func(wantStock, wantCart int64) {
		t.Helper()
		p, err := m.Product(ctx, productID)
		require.NoError(t, err)
		assert.EqualValues(t, wantStock, p.Quantity)
		assert.EqualValues(t, wantCart, totalReserved(t, m, []int64{user}, productID))
		assert.EqualValues(t, 5, p.Quantity+totalReserved(t, m, []int64{user}, productID))
	}

	for i := 0; i < 3; i++ {
		ok, err := m.AddToCart(ctx, user, productID)
		require.NoError(t, err)
		require.True(t, ok)
	}
	check(2, 3)

	kept, err := m.ReduceCart(ctx, user, productID)
	require.NoError(t, err)
	assert.True(t, kept)
	check(3, 2)

	require.NoError(t, m.RemoveFromCart(ctx, user, productID))
	check(5, 0)
}

func TestReduceCartDeletesLastUnit(t *testing.T) {
	m, productID := newTestStore(t, 2)
	ctx := context.Background()
	const user = int64(7)

	ok, err := m.AddToCart(ctx, user, productID)
	require.NoError(t, err)
	require.True(t, ok)

	kept, err := m.ReduceCart(ctx, user, productID)
	require.NoError(t, err)
	assert.False(t, kept, "single-unit line must be deleted")

	lines, err := m.UserCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, lines)

	p, err := m.Product(ctx, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Quantity)

	// absent line is a no-op
	kept, err = m.ReduceCart(ctx, user, productID)
	require.NoError(t, err)
	assert.False(t, kept)
}

func TestRemoveFromCartAbsentLine(t *testing.T) {
	m, productID := newTestStore(t, 1)
	require.NoError(t, m.RemoveFromCart(context.Background(), 42, productID))
}

func TestDeleteProductDropsCartLines(t *testing.T) {
	m, productID := newTestStore(t, 2)
	ctx := context.Background()

	ok, err := m.AddToCart(ctx, 7, productID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, m.DeleteProduct(ctx, productID))

	lines, err := m.UserCart(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = m.Product(ctx, productID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedCategoriesIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SeedCategories(ctx, []string{"A", "B"}))
	require.NoError(t, m.SeedCategories(ctx, []string{"A", "B"}))

	cats, err := m.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "A", cats[0].Name)
	assert.Equal(t, "B", cats[1].Name)
}

func TestSeedBannersAndImage(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SeedBanners(ctx, DefaultBanners))
	require.NoError(t, m.SeedBanners(ctx, DefaultBanners))

	banners, err := m.Banners(ctx)
	require.NoError(t, err)
	require.Len(t, banners, len(DefaultBanners))

	b, err := m.Banner(ctx, "catalog")
	require.NoError(t, err)
	assert.Nil(t, b.Image)

	require.NoError(t, m.SetBannerImage(ctx, "catalog", "file-9"))
	b, err = m.Banner(ctx, "catalog")
	require.NoError(t, err)
	require.NotNil(t, b.Image)
	assert.Equal(t, "file-9", *b.Image)

	assert.ErrorIs(t, m.SetBannerImage(ctx, "nope", "file-9"), ErrNotFound)
}

func TestEnsureUserKeepsFirstRecord(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.EnsureUser(ctx, 7, "Ann", "Lee"))
	require.NoError(t, m.EnsureUser(ctx, 7, "Other", "Name"))

	u := m.users[7]
	require.NotNil(t, u.FirstName)
	assert.Equal(t, "Ann", *u.FirstName)
}

func TestUpdateProduct(t *testing.T) {
	m, productID := newTestStore(t, 2)
	ctx := context.Background()

	cats, err := m.Categories(ctx)
	require.NoError(t, err)

	err = m.UpdateProduct(ctx, productID, ProductFields{
		Name:        "Burger",
		Description: "with cheese",
		Price:       decimal.NewFromFloat(199.90),
		Quantity:    9,
		Image:       "file-2",
		CategoryID:  cats[1].ID,
	})
	require.NoError(t, err)

	p, err := m.Product(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "Burger", p.Name)
	assert.EqualValues(t, 9, p.Quantity)
	assert.Equal(t, cats[1].ID, p.CategoryID)
	assert.True(t, p.Price.Equal(decimal.NewFromFloat(199.90)))

	assert.ErrorIs(t, m.UpdateProduct(ctx, 9999, ProductFields{}), ErrNotFound)
}
