package bot

import (
	"errors"

	tele "gopkg.in/telebot.v4"

	"shopbot/core/telegram/callbacks"
	tghelpers "shopbot/core/telegram/helpers"
	"shopbot/core/telegram/keyboard"
	"shopbot/internal/menu"
)

func userMenuMarkup() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{"Products", "Cart"},
		[]string{"About store"},
	)
}

func (b *Bot) handleStart(c tele.Context) error {
	sender := c.Sender()
	ctx := tghelpers.BuildContext(c)
	if err := b.store.EnsureUser(ctx, sender.ID, sender.FirstName, sender.LastName); err != nil {
		return err
	}
	return tghelpers.SendHTML(c, "Welcome to the shop! Choose an action:", userMenuMarkup())
}

func (b *Bot) handleProducts(c tele.Context) error {
	screen, err := b.resolver.Menu(tghelpers.BuildContext(c), menu.MenuPayload{
		Level:    0,
		MenuName: menu.MenuCatalog,
		Page:     1,
	})
	if err != nil {
		return err
	}
	return sendScreen(c, screen)
}

func (b *Bot) handleCart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	screen, err := b.resolver.Cart(ctx, c.Sender().ID, menu.CartPayload{
		Action: menu.CartShow,
		Page:   1,
	})
	if errors.Is(err, menu.ErrCartEmpty) {
		return b.sendBannerPage(c, "cart")
	}
	if err != nil {
		return err
	}
	return sendScreen(c, screen)
}

func (b *Bot) handleAbout(c tele.Context) error {
	return b.sendBannerPage(c, "about")
}

func (b *Bot) handleMenuCallback(c tele.Context) error {
	p, err := menu.DecodeMenuPayload(callbacks.CallbackPayload(c))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This button is no longer valid"})
	}

	screen, err := b.resolver.Menu(tghelpers.BuildContext(c), p)
	if errors.Is(err, menu.ErrNoProducts) {
		return c.Respond(&tele.CallbackResponse{Text: "No products in this category yet"})
	}
	if err != nil {
		return err
	}
	_ = c.Respond()
	return editScreen(c, screen)
}

func (b *Bot) handleCartCallback(c tele.Context) error {
	p, err := menu.DecodeCartPayload(callbacks.CallbackPayload(c))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This button is no longer valid"})
	}

	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	switch p.Action {
	case menu.CartAdd:
		sender := c.Sender()
		if err := b.store.EnsureUser(ctx, sender.ID, sender.FirstName, sender.LastName); err != nil {
			return err
		}
		ok, err := b.store.AddToCart(ctx, userID, p.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: "Out of stock"})
		}
		return c.Respond(&tele.CallbackResponse{Text: "Added to cart ✅"})
	case menu.CartOrder:
		return c.Respond(&tele.CallbackResponse{Text: "Checkout is coming soon 🚧"})
	}

	screen, err := b.resolver.Cart(ctx, userID, p)
	switch {
	case errors.Is(err, menu.ErrCartEmpty):
		_ = c.Respond()
		_ = c.Delete()
		return b.sendBannerPage(c, "cart")
	case errors.Is(err, menu.ErrOutOfStock):
		return c.Respond(&tele.CallbackResponse{Text: "Out of stock, cannot add more"})
	case err != nil:
		return err
	}
	_ = c.Respond()
	return editScreen(c, screen)
}
