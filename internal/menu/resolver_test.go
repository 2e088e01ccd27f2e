package menu

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/internal/store"
)

const buyer = int64(77)

func seededResolver(t *testing.T, productCount int, each int64) (*Resolver, *store.Memory, []store.Product) {
	t.Helper()
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SeedCategories(ctx, store.DefaultCategories))
	require.NoError(t, m.SeedBanners(ctx, store.DefaultBanners))

	cats, err := m.Categories(ctx)
	require.NoError(t, err)
	for i := 0; i < productCount; i++ {
		require.NoError(t, m.CreateProduct(ctx, store.ProductFields{
			Name:       fmt.Sprintf("Item %d", i+1),
			Price:      decimal.NewFromInt(int64(100 * (i + 1))),
			Quantity:   each,
			Image:      fmt.Sprintf("file-%d", i+1),
			CategoryID: cats[0].ID,
		}))
	}
	products, err := m.ProductsByCategory(ctx, cats[0].ID)
	require.NoError(t, err)
	require.Len(t, products, productCount)
	return NewResolver(m), m, products
}

func TestMenuLevelZero(t *testing.T) {
	r, _, _ := seededResolver(t, 0, 0)

	screen, err := r.Menu(context.Background(), MenuPayload{Level: 0, MenuName: MenuCatalog})
	require.NoError(t, err)
	assert.Equal(t, "Categories:", screen.Caption)
	require.NotNil(t, screen.Markup)
	require.Len(t, screen.Markup.InlineKeyboard, 1)
	assert.Len(t, screen.Markup.InlineKeyboard[0], 2)
}

func TestMenuLevelOnePaging(t *testing.T) {
	r, _, _ := seededResolver(t, 3, 5)
	ctx := context.Background()

	screen, err := r.Menu(ctx, MenuPayload{Level: 1, MenuName: MenuProducts, CategoryID: 1, Page: 1})
	require.NoError(t, err)
	assert.Contains(t, screen.Caption, "<b>Item 1</b>")
	assert.Contains(t, screen.Caption, "Price:  100.00 ₽")
	assert.Contains(t, screen.Caption, "In stock: 5")
	assert.Contains(t, screen.Caption, "Item 1 of 3")
	assert.Equal(t, "file-1", screen.Image)
	// first page: buy/back row plus a next-only pager row
	require.Len(t, screen.Markup.InlineKeyboard, 2)
	assert.Len(t, screen.Markup.InlineKeyboard[1], 1)

	screen, err = r.Menu(ctx, MenuPayload{Level: 1, MenuName: MenuProducts, CategoryID: 1, Page: 2})
	require.NoError(t, err)
	assert.Contains(t, screen.Caption, "Item 2 of 3")
	assert.Len(t, screen.Markup.InlineKeyboard[1], 2, "middle page shows both pager buttons")

	screen, err = r.Menu(ctx, MenuPayload{Level: 1, MenuName: MenuProducts, CategoryID: 1, Page: 3})
	require.NoError(t, err)
	assert.Contains(t, screen.Caption, "Item 3 of 3")
	assert.Len(t, screen.Markup.InlineKeyboard[1], 1)
}

func TestMenuEmptyCategory(t *testing.T) {
	r, _, _ := seededResolver(t, 0, 0)

	_, err := r.Menu(context.Background(), MenuPayload{Level: 1, MenuName: MenuProducts, CategoryID: 2, Page: 1})
	assert.ErrorIs(t, err, ErrNoProducts)
}

func TestCartShowAndTotals(t *testing.T) {
	r, m, products := seededResolver(t, 2, 5)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := m.AddToCart(ctx, buyer, products[0].ID)
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := m.AddToCart(ctx, buyer, products[1].ID)
	require.NoError(t, err)
	require.True(t, ok)

	screen, err := r.Cart(ctx, buyer, CartPayload{Action: CartShow, Page: 1})
	require.NoError(t, err)
	assert.Contains(t, screen.Caption, "<b>Item 1</b>")
	assert.Contains(t, screen.Caption, " 100.00 ₽ x 2 =  200.00 ₽")
	assert.Contains(t, screen.Caption, "In stock: 3", "stock line reflects units left after the reservations")
	assert.Contains(t, screen.Caption, "Item 1 of 2 in the cart.")
	assert.Contains(t, screen.Caption, "Total cart price:  400.00 ₽")
	// action row, pager row, order row
	require.Len(t, screen.Markup.InlineKeyboard, 3)
	assert.Len(t, screen.Markup.InlineKeyboard[0], 3)
}

func TestCartEmpty(t *testing.T) {
	r, _, _ := seededResolver(t, 1, 1)

	_, err := r.Cart(context.Background(), buyer, CartPayload{Action: CartShow, Page: 1})
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCartIncrementRefusedOutOfStock(t *testing.T) {
	r, m, products := seededResolver(t, 1, 1)
	ctx := context.Background()

	ok, err := m.AddToCart(ctx, buyer, products[0].ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = r.Cart(ctx, buyer, CartPayload{Action: CartIncrement, Page: 1, ProductID: products[0].ID})
	assert.ErrorIs(t, err, ErrOutOfStock)

	// the refused increment must not have touched stock or the cart
	p, err := m.Product(ctx, products[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, p.Quantity)
	lines, err := m.UserCart(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 1, lines[0].Quantity)
}

func TestCartDeleteStepsPageBack(t *testing.T) {
	r, m, products := seededResolver(t, 2, 5)
	ctx := context.Background()

	for _, p := range products {
		ok, err := m.AddToCart(ctx, buyer, p.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}

	// viewing page 2, delete the line shown there
	screen, err := r.Cart(ctx, buyer, CartPayload{Action: CartDelete, Page: 2, ProductID: products[1].ID})
	require.NoError(t, err)
	assert.Contains(t, screen.Caption, "Item 1 of 1 in the cart.")
	assert.Contains(t, screen.Caption, "<b>Item 1</b>")
}

func TestCartDecrementAwayStepsPageBack(t *testing.T) {
	r, m, products := seededResolver(t, 2, 5)
	ctx := context.Background()

	for _, p := range products {
		ok, err := m.AddToCart(ctx, buyer, p.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}

	screen, err := r.Cart(ctx, buyer, CartPayload{Action: CartDecrement, Page: 2, ProductID: products[1].ID})
	require.NoError(t, err)
	assert.Contains(t, screen.Caption, "Item 1 of 1 in the cart.")

	// decrement of a multi-unit line keeps the page
	_, err = m.AddToCart(ctx, buyer, products[0].ID)
	require.NoError(t, err)
	screen, err = r.Cart(ctx, buyer, CartPayload{Action: CartDecrement, Page: 1, ProductID: products[0].ID})
	require.NoError(t, err)
	assert.Contains(t, screen.Caption, "x 1 =")
}

func TestCartDeleteLastLine(t *testing.T) {
	r, m, products := seededResolver(t, 1, 1)
	ctx := context.Background()

	ok, err := m.AddToCart(ctx, buyer, products[0].ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = r.Cart(ctx, buyer, CartPayload{Action: CartDelete, Page: 1, ProductID: products[0].ID})
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestPageBannerWithoutImage(t *testing.T) {
	r, m, _ := seededResolver(t, 0, 0)
	ctx := context.Background()

	screen, err := r.Page(ctx, "about")
	require.NoError(t, err)
	assert.Empty(t, screen.Image)
	assert.Contains(t, screen.Caption, "Welcome to the shop!")
	assert.Nil(t, screen.Markup)

	require.NoError(t, m.SetBannerImage(ctx, "about", "file-about"))
	screen, err = r.Page(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, "file-about", screen.Image)
}
