package bot

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"shopbot/core/telegram/callbacks"
	tghelpers "shopbot/core/telegram/helpers"
	"shopbot/core/telegram/keyboard"
	"shopbot/internal/pricing"
	"shopbot/internal/store"
	"shopbot/internal/wizard"
)

const (
	textCancel = "cancel"
	textBack   = "back"

	editHint        = "Send \".\" to keep the current value."
	noPreviousValue = "There is no previous value to keep. Enter a new one."
)

func adminMenuMarkup() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{"Add product", "Assortment"},
		[]string{"Add/change banner"},
	)
}

func wizardMarkup() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{textBack, textCancel})
}

func (b *Bot) handleAdmin(c tele.Context) error {
	return tghelpers.SendHTML(c, "What would you like to do?", adminMenuMarkup())
}

// handleAddProduct enters the six-step product wizard in create mode.
func (b *Bot) handleAddProduct(c tele.Context) error {
	step := b.product.Start(c.Sender().ID)
	return tghelpers.SendHTML(c, step.Prompt, wizardMarkup())
}

func (b *Bot) handleAssortment(c tele.Context) error {
	cats, err := b.store.Categories(tghelpers.BuildContext(c))
	if err != nil {
		return err
	}
	buttons := make([]keyboard.InlineBtn, 0, len(cats))
	for _, cat := range cats {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   cat.Name,
			Unique: callbackAdminCategory,
			Data:   strconv.FormatInt(cat.ID, 10),
		})
	}
	return tghelpers.SendHTML(c, "Choose a category:", keyboard.InlineButtonsNPerRow(buttons, 2))
}

// handleAddBanner enters the one-step banner wizard. The prompt echoes the
// valid page names so the admin does not have to guess.
func (b *Bot) handleAddBanner(c tele.Context) error {
	names, err := b.bannerPages(c)
	if err != nil {
		return err
	}
	step := b.banner.Start(c.Sender().ID)
	return tghelpers.SendHTML(c, step.Prompt+"\n"+strings.Join(names, ", "), wizardMarkup())
}

func (b *Bot) bannerPages(c tele.Context) ([]string, error) {
	banners, err := b.store.Banners(tghelpers.BuildContext(c))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(banners))
	for _, banner := range banners {
		names = append(names, banner.Name)
	}
	sort.Strings(names)
	return names, nil
}

// wizardControl consumes the global cancel/back commands available on every
// step. It reports whether the update was handled.
func (b *Bot) wizardControl(c tele.Context, eng *wizard.Engine) (bool, error) {
	userID := c.Sender().ID
	switch strings.ToLower(strings.TrimSpace(c.Text())) {
	case textCancel:
		eng.Cancel(userID)
		return true, tghelpers.SendHTML(c, "Actions cancelled.", adminMenuMarkup())
	case textBack:
		step, moved := eng.Back(userID)
		if !moved {
			return true, tghelpers.SendText(c,
				fmt.Sprintf("There is no previous step. %s or type %q.", step.Prompt, textCancel))
		}
		return true, b.sendStep(c, step, "Ok, one step back. ")
	}
	return false, nil
}

// sendStep prompts for a wizard step. The category step carries its inline
// choice keyboard; every other step keeps the back/cancel reply keyboard.
func (b *Bot) sendStep(c tele.Context, step wizard.Step, prefix string) error {
	if step.State == wizard.StateProductCategory {
		cats, err := b.store.Categories(tghelpers.BuildContext(c))
		if err != nil {
			return err
		}
		buttons := make([]keyboard.InlineBtn, 0, len(cats))
		for _, cat := range cats {
			buttons = append(buttons, keyboard.InlineBtn{
				Text:   cat.Name,
				Unique: callbackWizardCategory,
				Data:   strconv.FormatInt(cat.ID, 10),
			})
		}
		return tghelpers.SendHTML(c, prefix+step.Prompt, keyboard.InlineButtonsNPerRow(buttons, 2))
	}
	return tghelpers.SendHTML(c, prefix+step.Prompt, wizardMarkup())
}

// advance stores the answer and prompts for the next step.
func (b *Bot) advance(c tele.Context, field, value string) error {
	userID := c.Sender().ID
	b.product.SetValue(userID, field, value)
	next, done := b.product.Advance(userID)
	if done {
		return b.commitProduct(c)
	}
	return b.sendStep(c, next, "")
}

func (b *Bot) wizardName(c tele.Context) error {
	if handled, err := b.wizardControl(c, b.product); handled {
		return err
	}
	value, err := b.product.Resolve(c.Sender().ID, wizard.FieldName, strings.TrimSpace(c.Text()))
	if errors.Is(err, wizard.ErrNoDefault) {
		return tghelpers.SendText(c, noPreviousValue)
	}
	if value == "" || len([]rune(value)) > 50 {
		return tghelpers.SendText(c, "The name must be 1 to 50 characters long. Try again.")
	}
	return b.advance(c, wizard.FieldName, value)
}

func (b *Bot) wizardDescription(c tele.Context) error {
	if handled, err := b.wizardControl(c, b.product); handled {
		return err
	}
	value, err := b.product.Resolve(c.Sender().ID, wizard.FieldDescription, strings.TrimSpace(c.Text()))
	if errors.Is(err, wizard.ErrNoDefault) {
		return tghelpers.SendText(c, noPreviousValue)
	}
	if value == "" || len([]rune(value)) > 150 {
		return tghelpers.SendText(c, "The description must be 1 to 150 characters long. Try again.")
	}
	return b.advance(c, wizard.FieldDescription, value)
}

// wizardCategoryText catches free text on the category step, which only
// accepts the inline buttons.
func (b *Bot) wizardCategoryText(c tele.Context) error {
	if handled, err := b.wizardControl(c, b.product); handled {
		return err
	}
	return tghelpers.SendText(c, "Choose a category using the buttons above.")
}

func (b *Bot) wizardPrice(c tele.Context) error {
	if handled, err := b.wizardControl(c, b.product); handled {
		return err
	}
	value, err := b.product.Resolve(c.Sender().ID, wizard.FieldPrice, strings.TrimSpace(c.Text()))
	if errors.Is(err, wizard.ErrNoDefault) {
		return tghelpers.SendText(c, noPreviousValue)
	}
	if _, err := pricing.ParsePrice(value); err != nil {
		return tghelpers.SendText(c, "Enter a valid price value.")
	}
	return b.advance(c, wizard.FieldPrice, value)
}

func (b *Bot) wizardQuantity(c tele.Context) error {
	if handled, err := b.wizardControl(c, b.product); handled {
		return err
	}
	value, err := b.product.Resolve(c.Sender().ID, wizard.FieldQuantity, strings.TrimSpace(c.Text()))
	if errors.Is(err, wizard.ErrNoDefault) {
		return tghelpers.SendText(c, noPreviousValue)
	}
	if _, err := pricing.ParseQuantity(value); err != nil {
		return tghelpers.SendText(c, "Enter a valid quantity.")
	}
	return b.advance(c, wizard.FieldQuantity, value)
}

func (b *Bot) wizardImage(c tele.Context) error {
	if handled, err := b.wizardControl(c, b.product); handled {
		return err
	}
	userID := c.Sender().ID

	var value string
	switch {
	case c.Message() != nil && c.Message().Photo != nil:
		value = c.Message().Photo.FileID
	case strings.TrimSpace(c.Text()) == wizard.KeepCurrent:
		kept, err := b.product.Resolve(userID, wizard.FieldImage, wizard.KeepCurrent)
		if errors.Is(err, wizard.ErrNoDefault) {
			return tghelpers.SendText(c, noPreviousValue)
		}
		value = kept
	default:
		return tghelpers.SendText(c, "Send the product image.")
	}
	return b.advance(c, wizard.FieldImage, value)
}

// commitProduct turns the collected answers into a create or a full-replace
// update, then leaves the wizard.
func (b *Bot) commitProduct(c tele.Context) error {
	userID := c.Sender().ID
	values := b.product.Values(userID)

	price, err := pricing.ParsePrice(values[wizard.FieldPrice])
	if err != nil {
		return fmt.Errorf("commit product price: %w", err)
	}
	quantity, err := pricing.ParseQuantity(values[wizard.FieldQuantity])
	if err != nil {
		return fmt.Errorf("commit product quantity: %w", err)
	}
	categoryID, err := strconv.ParseInt(values[wizard.FieldCategory], 10, 64)
	if err != nil {
		return fmt.Errorf("commit product category: %w", err)
	}
	fields := store.ProductFields{
		Name:        values[wizard.FieldName],
		Description: values[wizard.FieldDescription],
		Price:       price,
		Quantity:    quantity,
		Image:       values[wizard.FieldImage],
		CategoryID:  categoryID,
	}

	ctx := tghelpers.BuildContext(c)
	outcome := "Product added!"
	if id, editing := b.product.Target(userID); editing {
		if err := b.store.UpdateProduct(ctx, id, fields); err != nil {
			return err
		}
		outcome = "Product updated!"
	} else if err := b.store.CreateProduct(ctx, fields); err != nil {
		return err
	}

	b.product.Finish(userID)
	return tghelpers.SendHTML(c, outcome, adminMenuMarkup())
}

// wizardBanner handles the single banner step: a photo captioned with a
// known page name.
func (b *Bot) wizardBanner(c tele.Context) error {
	if handled, err := b.wizardControl(c, b.banner); handled {
		return err
	}
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return tghelpers.SendText(c, "Send a banner photo.")
	}

	names, err := b.bannerPages(c)
	if err != nil {
		return err
	}
	page := strings.TrimSpace(msg.Caption)
	known := false
	for _, name := range names {
		if name == page {
			known = true
			break
		}
	}
	if !known {
		return tghelpers.SendText(c,
			"Enter a valid page name in the caption, for example:\n"+strings.Join(names, ", "))
	}

	if err := b.store.SetBannerImage(tghelpers.BuildContext(c), page, msg.Photo.FileID); err != nil {
		return err
	}
	b.banner.Finish(c.Sender().ID)
	return tghelpers.SendHTML(c, "Banner updated!", adminMenuMarkup())
}

func (b *Bot) handleWizardCategoryCallback(c tele.Context) error {
	userID := c.Sender().ID
	step, ok := b.product.Current(userID)
	if !ok || step.State != wizard.StateProductCategory {
		return c.Respond(&tele.CallbackResponse{Text: "Not choosing a category right now"})
	}

	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This button is no longer valid"})
	}
	cats, err := b.store.Categories(tghelpers.BuildContext(c))
	if err != nil {
		return err
	}
	known := false
	for _, cat := range cats {
		if cat.ID == id {
			known = true
			break
		}
	}
	if !known {
		return c.Respond(&tele.CallbackResponse{Text: "Choose a category using the buttons"})
	}

	_ = c.Respond()
	return b.advance(c, wizard.FieldCategory, strconv.FormatInt(id, 10))
}

func (b *Bot) handleAdminCategoryCallback(c tele.Context) error {
	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This button is no longer valid"})
	}
	_ = c.Respond()

	ctx := tghelpers.BuildContext(c)
	products, err := b.store.ProductsByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return tghelpers.SendText(c, "There are no products in this category yet.")
	}

	for _, p := range products {
		price, err := pricing.FormatPrice(p.Price)
		if err != nil {
			return err
		}
		caption := fmt.Sprintf("<b>%s</b>\n%s\nPrice: %s\nIn stock: %d", p.Name, p.Description, price, p.Quantity)
		markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
			{Text: "Delete", Unique: callbackProductDelete, Data: strconv.FormatInt(p.ID, 10)},
			{Text: "Edit", Unique: callbackProductEdit, Data: strconv.FormatInt(p.ID, 10)},
		})
		if err := tghelpers.SendPhoto(c, p.Image, caption, markup); err != nil {
			return err
		}
	}
	return tghelpers.SendText(c, "Ok, here is the product list ⏫")
}

func (b *Bot) handleProductDeleteCallback(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This button is no longer valid"})
	}
	if err := b.store.DeleteProduct(tghelpers.BuildContext(c), id); err != nil {
		return err
	}
	_ = c.Respond(&tele.CallbackResponse{Text: "Product deleted"})
	return tghelpers.SendText(c, "Product deleted!")
}

// handleProductEditCallback puts the tapped product's fields behind the "."
// sentinel and re-enters the wizard in edit mode.
func (b *Bot) handleProductEditCallback(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This button is no longer valid"})
	}

	ctx := tghelpers.BuildContext(c)
	p, err := b.store.Product(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "Product not found"})
	}
	if err != nil {
		return err
	}

	userID := c.Sender().ID
	b.product.SetTarget(userID, p.ID, map[string]string{
		wizard.FieldName:        p.Name,
		wizard.FieldDescription: p.Description,
		wizard.FieldCategory:    strconv.FormatInt(p.CategoryID, 10),
		wizard.FieldPrice:       p.Price.String(),
		wizard.FieldQuantity:    strconv.FormatInt(p.Quantity, 10),
		wizard.FieldImage:       p.Image,
	})
	step := b.product.Start(userID)
	_ = c.Respond()
	return tghelpers.SendHTML(c, step.Prompt+"\n"+editHint, wizardMarkup())
}
