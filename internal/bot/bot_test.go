package bot

import (
	"context"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tg "shopbot/core/telegram"
	"shopbot/core/telegram/state"
	"shopbot/internal/store"
)

const shopAdmin = int64(1)

// callbackContext fakes the slice of tele.Context the callback handlers
// touch. Methods outside that slice stay on the embedded nil interface.
type callbackContext struct {
	tele.Context

	sender    *tele.User
	data      string
	values    map[string]interface{}
	responded bool
	sent      []interface{}
}

func newCallbackContext(userID int64, unique, payload string) *callbackContext {
	return &callbackContext{
		sender: &tele.User{ID: userID},
		data:   "\f" + unique + "|" + payload,
		values: map[string]interface{}{},
	}
}

func (c *callbackContext) Sender() *tele.User { return c.sender }

func (c *callbackContext) Chat() *tele.Chat { return &tele.Chat{ID: c.sender.ID} }

func (c *callbackContext) Update() tele.Update { return tele.Update{} }

func (c *callbackContext) Callback() *tele.Callback {
	return &tele.Callback{Sender: c.sender, Data: c.data}
}

func (c *callbackContext) Respond(resp ...*tele.CallbackResponse) error {
	c.responded = true
	return nil
}

func (c *callbackContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *callbackContext) Get(key string) interface{} { return c.values[key] }

func (c *callbackContext) Set(key string, v interface{}) { c.values[key] = v }

func seededBot(t *testing.T) (*Bot, *tg.Registry, *store.Memory, store.Product) {
	t.Helper()
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SeedCategories(ctx, store.DefaultCategories))
	cats, err := m.Categories(ctx)
	require.NoError(t, err)
	require.NoError(t, m.CreateProduct(ctx, store.ProductFields{
		Name:       "Tea",
		Price:      decimal.NewFromInt(100),
		Quantity:   3,
		Image:      "file-tea",
		CategoryID: cats[0].ID,
	}))
	products, err := m.ProductsByCategory(ctx, cats[0].ID)
	require.NoError(t, err)
	require.Len(t, products, 1)

	b := New(m, state.NewMemoryManager(), []int64{shopAdmin})
	reg := tg.NewRegistry()
	b.Register(reg)
	return b, reg, m, products[0]
}

func TestAdminCallbacksRejectNonMembers(t *testing.T) {
	_, reg, m, product := seededBot(t)
	handler, ok := reg.GetCallback(callbackProductDelete)
	require.True(t, ok)

	c := newCallbackContext(999, callbackProductDelete, strconv.FormatInt(product.ID, 10))
	require.NoError(t, handler(c))

	assert.True(t, c.responded, "forged taps still get their callback answered")
	assert.Empty(t, c.sent)
	_, err := m.Product(context.Background(), product.ID)
	assert.NoError(t, err, "product survives a forged delete")
}

func TestAdminCallbacksAllowMembers(t *testing.T) {
	_, reg, m, product := seededBot(t)
	handler, ok := reg.GetCallback(callbackProductDelete)
	require.True(t, ok)

	c := newCallbackContext(shopAdmin, callbackProductDelete, strconv.FormatInt(product.ID, 10))
	require.NoError(t, handler(c))

	_, err := m.Product(context.Background(), product.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEditCallbackRejectedWithoutMembership(t *testing.T) {
	b, reg, _, product := seededBot(t)
	handler, ok := reg.GetCallback(callbackProductEdit)
	require.True(t, ok)

	c := newCallbackContext(999, callbackProductEdit, strconv.FormatInt(product.ID, 10))
	require.NoError(t, handler(c))

	assert.True(t, c.responded)
	assert.False(t, b.product.Active(999), "forged edit must not open the wizard")
}
