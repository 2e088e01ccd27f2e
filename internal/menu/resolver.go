package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"

	"shopbot/core/telegram/format"
	"shopbot/internal/pagination"
	"shopbot/internal/pricing"
	"shopbot/internal/store"
)

// Screen is everything a handler needs to send or edit one message.
// Image may be empty when the banner has no photo attached yet.
type Screen struct {
	Image   string
	Caption string
	Markup  *tele.ReplyMarkup
}

var (
	// ErrCartEmpty means the cart holds no lines; callers replace the cart
	// message with a plain "empty" notice.
	ErrCartEmpty = errors.New("menu: cart is empty")
	// ErrOutOfStock means an increment was refused; callers keep the
	// current screen and only show a toast.
	ErrOutOfStock = errors.New("menu: product out of stock")
	// ErrNoProducts means the chosen category has nothing to show.
	ErrNoProducts = errors.New("menu: category has no products")
)

// Resolver composes store queries with pagination into screens.
type Resolver struct {
	store store.Store
}

func NewResolver(st store.Store) *Resolver {
	return &Resolver{store: st}
}

// Menu resolves a catalog navigation payload: level 0 is the category list
// under the named banner, level 1 pages through one category's products.
func (r *Resolver) Menu(ctx context.Context, p MenuPayload) (Screen, error) {
	switch p.Level {
	case 0:
		return r.categories(ctx, p.MenuName)
	case 1:
		return r.products(ctx, p.CategoryID, p.Page)
	default:
		return Screen{}, fmt.Errorf("menu: unknown level %d", p.Level)
	}
}

// Page renders a standalone banner page (about, empty cart) with no keyboard.
func (r *Resolver) Page(ctx context.Context, name string) (Screen, error) {
	banner, err := r.store.Banner(ctx, name)
	if err != nil {
		return Screen{}, err
	}
	return Screen{
		Image:   format.DerefString(banner.Image, ""),
		Caption: format.DerefString(banner.Description, ""),
	}, nil
}

func (r *Resolver) categories(ctx context.Context, bannerName string) (Screen, error) {
	banner, err := r.store.Banner(ctx, bannerName)
	if err != nil {
		return Screen{}, err
	}
	categories, err := r.store.Categories(ctx)
	if err != nil {
		return Screen{}, err
	}
	return Screen{
		Image:   format.DerefString(banner.Image, ""),
		Caption: format.DerefString(banner.Description, ""),
		Markup:  CategoriesMarkup(categories),
	}, nil
}

func (r *Resolver) products(ctx context.Context, categoryID int64, page int) (Screen, error) {
	products, err := r.store.ProductsByCategory(ctx, categoryID)
	if err != nil {
		return Screen{}, err
	}
	if len(products) == 0 {
		return Screen{}, ErrNoProducts
	}
	pg, err := pagination.New(products, page)
	if err != nil {
		return Screen{}, err
	}
	product := pg.Item()

	price, err := pricing.FormatPrice(product.Price)
	if err != nil {
		return Screen{}, err
	}
	caption := fmt.Sprintf(
		"<b>%s</b>\n%s\nPrice: %s\nIn stock: %d\nItem %d of %d",
		product.Name, product.Description, price, product.Quantity, pg.Page(), pg.Pages(),
	)

	_, hasPrev := pg.Previous()
	_, hasNext := pg.Next()
	return Screen{
		Image:   product.Image,
		Caption: caption,
		Markup:  ProductMarkup(categoryID, pg.Page(), product.ID, hasPrev, hasNext),
	}, nil
}

// Cart applies the payload's cart mutation, then re-renders the cart at the
// adjusted page. Deleting a line, or decrementing one away, while past the
// first page steps the page back so the pager never points beyond the end.
func (r *Resolver) Cart(ctx context.Context, userID int64, p CartPayload) (Screen, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}

	switch p.Action {
	case CartDelete:
		if err := r.store.RemoveFromCart(ctx, userID, p.ProductID); err != nil {
			return Screen{}, err
		}
		if page > 1 {
			page--
		}
	case CartDecrement:
		kept, err := r.store.ReduceCart(ctx, userID, p.ProductID)
		if err != nil {
			return Screen{}, err
		}
		if !kept && page > 1 {
			page--
		}
	case CartIncrement:
		ok, err := r.store.AddToCart(ctx, userID, p.ProductID)
		if err != nil {
			return Screen{}, err
		}
		if !ok {
			return Screen{}, ErrOutOfStock
		}
	}

	lines, err := r.store.UserCart(ctx, userID)
	if err != nil {
		return Screen{}, err
	}
	if len(lines) == 0 {
		return Screen{}, ErrCartEmpty
	}

	pg, err := pagination.New(lines, page)
	if err != nil {
		return Screen{}, err
	}
	line := pg.Item()

	unit, err := pricing.FormatPrice(line.Product.Price)
	if err != nil {
		return Screen{}, err
	}
	lineTotal, err := pricing.Multiply(line.Quantity, line.Product.Price)
	if err != nil {
		return Screen{}, err
	}
	cartTotal := decimal.Zero
	for _, l := range lines {
		t, err := pricing.Multiply(l.Quantity, l.Product.Price)
		if err != nil {
			return Screen{}, err
		}
		cartTotal = cartTotal.Add(t)
	}
	lineTotalStr, err := pricing.FormatPrice(lineTotal)
	if err != nil {
		return Screen{}, err
	}
	cartTotalStr, err := pricing.FormatPrice(cartTotal)
	if err != nil {
		return Screen{}, err
	}

	caption := fmt.Sprintf(
		"<b>%s</b>\n%s x %d = %s\nIn stock: %d\nItem %d of %d in the cart.\nTotal cart price: %s",
		line.Product.Name, unit, line.Quantity, lineTotalStr, line.Product.Quantity,
		pg.Page(), pg.Pages(), cartTotalStr,
	)

	_, hasPrev := pg.Previous()
	_, hasNext := pg.Next()
	return Screen{
		Image:   line.Product.Image,
		Caption: caption,
		Markup:  CartMarkup(pg.Page(), line.ProductID, hasPrev, hasNext),
	}, nil
}
