// Package bot binds the storefront to Telegram: command and callback
// handlers for shoppers, plus the admin wizards for products and banners.
package bot

import (
	tele "gopkg.in/telebot.v4"

	tg "shopbot/core/telegram"
	"shopbot/core/telegram/commands"
	tghelpers "shopbot/core/telegram/helpers"
	"shopbot/core/telegram/middleware"
	"shopbot/core/telegram/state"
	"shopbot/internal/menu"
	"shopbot/internal/store"
	"shopbot/internal/wizard"
)

// Callback keys owned by the admin handlers. Catalog and cart keys live in
// the menu package next to their payload codecs.
const (
	callbackWizardCategory = "wizcat"
	callbackAdminCategory  = "admcat"
	callbackProductDelete  = "prddel"
	callbackProductEdit    = "prdedit"
)

// Bot holds the handler dependencies shared by the user and admin flows.
type Bot struct {
	store    store.Store
	resolver *menu.Resolver
	sessions state.Manager
	adminIDs []int64
	product  *wizard.Engine
	banner   *wizard.Engine
}

func New(st store.Store, sessions state.Manager, adminIDs []int64) *Bot {
	return &Bot{
		store:    st,
		resolver: menu.NewResolver(st),
		sessions: sessions,
		adminIDs: adminIDs,
		product:  wizard.New(wizard.ProductFlow, sessions),
		banner:   wizard.New(wizard.BannerFlow, sessions),
	}
}

// Register wires every command, callback and wizard state into the registry.
func (b *Bot) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Open the shop menu",
	})
	reg.RegisterCommand("/products", commands.Command{
		Handler:     b.handleProducts,
		Description: "Browse the catalog",
		Aliases:     []string{"Products"},
	})
	reg.RegisterCommand("/cart", commands.Command{
		Handler:     b.handleCart,
		Description: "Show your cart",
		Aliases:     []string{"Cart"},
	})
	reg.RegisterCommand("/about", commands.Command{
		Handler:     b.handleAbout,
		Description: "About the store",
		Aliases:     []string{"About store"},
	})

	reg.RegisterCommand("/admin", commands.Command{
		Handler:     b.handleAdmin,
		Description: "Open the admin menu",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/addproduct", commands.Command{
		Handler:     b.handleAddProduct,
		Description: "Start the product wizard",
		AdminOnly:   true,
		Hidden:      true,
		Aliases:     []string{"Add product"},
	})
	reg.RegisterCommand("/assortment", commands.Command{
		Handler:     b.handleAssortment,
		Description: "Browse products by category",
		AdminOnly:   true,
		Hidden:      true,
		Aliases:     []string{"Assortment"},
	})
	reg.RegisterCommand("/banner", commands.Command{
		Handler:     b.handleAddBanner,
		Description: "Attach a banner image",
		AdminOnly:   true,
		Hidden:      true,
		Aliases:     []string{"Add/change banner"},
	})

	_ = reg.RegisterCallback(menu.CallbackMenu, b.handleMenuCallback)
	_ = reg.RegisterCallback(menu.CallbackCart, b.handleCartCallback)

	// Callback data is forgeable, so the admin buttons carry the same
	// allow-list gate as the admin commands.
	gate := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminIDs: b.adminIDs,
		OnReject: func(c tele.Context) error { return c.Respond() },
	})
	_ = reg.RegisterCallback(callbackWizardCategory, gate(b.handleWizardCategoryCallback))
	_ = reg.RegisterCallback(callbackAdminCategory, gate(b.handleAdminCategoryCallback))
	_ = reg.RegisterCallback(callbackProductDelete, gate(b.handleProductDeleteCallback))
	_ = reg.RegisterCallback(callbackProductEdit, gate(b.handleProductEditCallback))

	state.RegisterHandler(wizard.StateProductName, b.wizardName)
	state.RegisterHandler(wizard.StateProductDescription, b.wizardDescription)
	state.RegisterHandler(wizard.StateProductCategory, b.wizardCategoryText)
	state.RegisterHandler(wizard.StateProductPrice, b.wizardPrice)
	state.RegisterHandler(wizard.StateProductQuantity, b.wizardQuantity)
	state.RegisterHandler(wizard.StateProductImage, b.wizardImage)
	state.RegisterHandler(wizard.StateBannerImage, b.wizardBanner)
}

// UnknownText is the fallback for free text outside any flow.
func (b *Bot) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, "I do not understand. Use the menu buttons or /start.")
	}
}

// UnknownPhoto is the fallback for photos outside the wizard flows.
func (b *Bot) UnknownPhoto() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, "I was not expecting a photo. Use the menu buttons.")
	}
}

// UnknownCallback answers taps on buttons from retired message layouts.
func (b *Bot) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	}
}

// sendScreen sends a resolved screen as a photo when an image is attached,
// as plain HTML text otherwise.
func sendScreen(c tele.Context, s menu.Screen) error {
	if s.Image != "" {
		return tghelpers.SendPhoto(c, s.Image, s.Caption, s.Markup)
	}
	return tghelpers.SendHTML(c, s.Caption, s.Markup)
}

// editScreen redraws the current message in place. Telegram cannot swap a
// text message's media, so when that edit fails the message is replaced.
func editScreen(c tele.Context, s menu.Screen) error {
	if s.Image == "" {
		return tghelpers.EditOrSendHTML(c, s.Caption, s.Markup)
	}
	if err := tghelpers.EditPhoto(c, s.Image, s.Caption, s.Markup); err != nil {
		_ = c.Delete()
		return tghelpers.SendPhoto(c, s.Image, s.Caption, s.Markup)
	}
	return nil
}

func (b *Bot) sendBannerPage(c tele.Context, name string) error {
	screen, err := b.resolver.Page(tghelpers.BuildContext(c), name)
	if err != nil {
		return err
	}
	return sendScreen(c, screen)
}
