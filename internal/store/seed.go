package store

// DefaultCategories are created on first startup against an empty database.
var DefaultCategories = []string{"Food", "Drinks"}

// DefaultBanners maps page names to their starting descriptions. Photos are
// attached later through the admin banner flow.
var DefaultBanners = map[string]string{
	"catalog": "Categories:",
	"cart":    "Your cart is empty!",
	"about":   "Welcome to the shop!\nOpen daily from 9:00 to 21:00.",
}
