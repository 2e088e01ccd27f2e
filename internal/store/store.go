// Package store persists the shop catalog, banners, users and carts.
//
// Two implementations share the same semantics: SQL (sqlx over Postgres,
// used in production) and Memory (used in tests and local development).
// The key invariant both uphold is stock conservation: adding a product to
// a cart decrements Product.Quantity by exactly the amount the cart line
// grows, and every removal path restores it, so stock plus reserved cart
// quantity stays constant for each product.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence surface the bot handlers work against.
type Store interface {
	// Categories returns all categories in insertion order.
	Categories(ctx context.Context) ([]Category, error)
	// SeedCategories inserts the given category names, but only when the
	// table is completely empty. Safe to call on every startup.
	SeedCategories(ctx context.Context, names []string) error

	// Banners returns all banner pages in insertion order.
	Banners(ctx context.Context) ([]Banner, error)
	// Banner returns the banner for a page name, or ErrNotFound.
	Banner(ctx context.Context, name string) (*Banner, error)
	// SeedBanners inserts page descriptions, but only when the banner
	// table is completely empty. Images start out unset.
	SeedBanners(ctx context.Context, pages map[string]string) error
	// SetBannerImage attaches a photo to an existing banner page.
	SetBannerImage(ctx context.Context, name, image string) error

	// CreateProduct inserts a new product.
	CreateProduct(ctx context.Context, fields ProductFields) error
	// ProductsByCategory returns a category's products in insertion order.
	ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error)
	// Product returns a single product by id, or ErrNotFound.
	Product(ctx context.Context, id int64) (*Product, error)
	// UpdateProduct overwrites every field of an existing product.
	UpdateProduct(ctx context.Context, id int64, fields ProductFields) error
	// DeleteProduct removes a product. Cart lines referencing it are
	// removed as well.
	DeleteProduct(ctx context.Context, id int64) error

	// EnsureUser records a Telegram account if it is not known yet.
	// Existing rows are left untouched.
	EnsureUser(ctx context.Context, userID int64, firstName, lastName string) error

	// AddToCart reserves one unit of a product for a user: the cart line
	// grows by one and product stock shrinks by one, atomically. It
	// reports false without error when the product is missing or out of
	// stock.
	AddToCart(ctx context.Context, userID, productID int64) (bool, error)
	// ReduceCart releases one reserved unit back to stock. When the line
	// holds a single unit it is deleted and false is reported; otherwise
	// the line shrinks by one and true is reported. A missing line is a
	// no-op reporting false.
	ReduceCart(ctx context.Context, userID, productID int64) (bool, error)
	// RemoveFromCart deletes a cart line and returns its whole quantity
	// to stock. A missing line is a no-op.
	RemoveFromCart(ctx context.Context, userID, productID int64) error
	// UserCart returns the user's cart lines, products included, in
	// insertion order.
	UserCart(ctx context.Context, userID int64) ([]CartLine, error)
}
