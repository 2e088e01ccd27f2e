// Package menu turns catalog and cart state into ready-to-send screens:
// a banner or product photo, an HTML caption and an inline keyboard.
package menu

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback unique keys. Telebot routes callbacks by unique and hands the
// remainder of the data to the payload codecs below.
const (
	CallbackMenu = "menu"
	CallbackCart = "cart"
)

// Menu names used as the banner page for level-0 screens and as the
// products marker for level-1 screens.
const (
	MenuCatalog  = "catalog"
	MenuProducts = "products"
)

// payloadVersion tags encoded payloads so stale buttons from older message
// layouts are rejected instead of misparsed.
const payloadVersion = "v1"

// MenuPayload is the navigation state carried by catalog callbacks.
type MenuPayload struct {
	Level      int
	MenuName   string
	CategoryID int64
	Page       int
}

// Encode renders the payload as v1|level|menu|category|page.
func (p MenuPayload) Encode() string {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("%s|%d|%s|%d|%d", payloadVersion, p.Level, p.MenuName, p.CategoryID, page)
}

// DecodeMenuPayload parses what Encode produced.
func DecodeMenuPayload(data string) (MenuPayload, error) {
	parts := strings.Split(data, "|")
	if len(parts) != 5 {
		return MenuPayload{}, fmt.Errorf("menu payload: want 5 fields, got %d", len(parts))
	}
	if parts[0] != payloadVersion {
		return MenuPayload{}, fmt.Errorf("menu payload: unsupported version %q", parts[0])
	}
	level, err := strconv.Atoi(parts[1])
	if err != nil {
		return MenuPayload{}, fmt.Errorf("menu payload level: %w", err)
	}
	categoryID, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return MenuPayload{}, fmt.Errorf("menu payload category: %w", err)
	}
	page, err := strconv.Atoi(parts[4])
	if err != nil {
		return MenuPayload{}, fmt.Errorf("menu payload page: %w", err)
	}
	if page < 1 {
		page = 1
	}
	return MenuPayload{Level: level, MenuName: parts[2], CategoryID: categoryID, Page: page}, nil
}

// CartAction names what a cart button does.
type CartAction string

const (
	// CartAdd reserves one unit from a catalog screen.
	CartAdd CartAction = "add"
	// CartShow renders the cart without changing it.
	CartShow CartAction = "show"
	// CartIncrement grows the current line by one.
	CartIncrement CartAction = "increment"
	// CartDecrement shrinks the current line by one.
	CartDecrement CartAction = "decrement"
	// CartDelete removes the current line entirely.
	CartDelete CartAction = "delete"
	// CartOrder is the checkout stub.
	CartOrder CartAction = "order"
)

// CartPayload is the state carried by cart callbacks.
type CartPayload struct {
	Action    CartAction
	Page      int
	ProductID int64
}

// Encode renders the payload as v1|action|page|product.
func (p CartPayload) Encode() string {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("%s|%s|%d|%d", payloadVersion, p.Action, page, p.ProductID)
}

// DecodeCartPayload parses what Encode produced.
func DecodeCartPayload(data string) (CartPayload, error) {
	parts := strings.Split(data, "|")
	if len(parts) != 4 {
		return CartPayload{}, fmt.Errorf("cart payload: want 4 fields, got %d", len(parts))
	}
	if parts[0] != payloadVersion {
		return CartPayload{}, fmt.Errorf("cart payload: unsupported version %q", parts[0])
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return CartPayload{}, fmt.Errorf("cart payload page: %w", err)
	}
	if page < 1 {
		page = 1
	}
	productID, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return CartPayload{}, fmt.Errorf("cart payload product: %w", err)
	}
	return CartPayload{Action: CartAction(parts[1]), Page: page, ProductID: productID}, nil
}
