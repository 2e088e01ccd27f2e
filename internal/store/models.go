package store

import "github.com/shopspring/decimal"

// Category groups products. Categories are seeded once and never edited.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Banner is a promotional page header: a photo plus a description, keyed by
// the page name it decorates. Images are attached later via the admin wizard.
type Banner struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Image       *string `db:"image"`
	Description *string `db:"description"`
}

// Product is a sellable item. Quantity is the available-for-sale count:
// on-hand stock minus whatever currently sits in carts.
type Product struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Image       string          `db:"image"`
	CategoryID  int64           `db:"category_id"`
	Quantity    int64           `db:"quantity"`
}

// User mirrors a Telegram account. Created lazily on first cart interaction
// and never updated afterwards.
type User struct {
	ID        int64   `db:"id"`
	UserID    int64   `db:"user_id"`
	FirstName *string `db:"first_name"`
	LastName  *string `db:"last_name"`
}

// CartLine reserves a quantity of one product for one user. At most one line
// exists per (user, product) pair; a line whose quantity would drop to zero
// is deleted. Product is always loaded with an explicit join.
type CartLine struct {
	ID        int64   `db:"id"`
	UserID    int64   `db:"user_id"`
	ProductID int64   `db:"product_id"`
	Quantity  int64   `db:"quantity"`
	Product   Product `db:"product"`
}

// ProductFields carries the values collected by the product wizard.
type ProductFields struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int64
	Image       string
	CategoryID  int64
}
