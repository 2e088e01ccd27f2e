package menu

import (
	tele "gopkg.in/telebot.v4"

	"shopbot/core/telegram/keyboard"
	"shopbot/internal/store"
)

// CategoriesMarkup builds the level-0 keyboard: one button per category,
// two per row.
func CategoriesMarkup(categories []store.Category) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(categories))
	for _, cat := range categories {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   cat.Name,
			Unique: CallbackMenu,
			Data: MenuPayload{
				Level:      1,
				MenuName:   MenuProducts,
				CategoryID: cat.ID,
				Page:       1,
			}.Encode(),
		})
	}
	return keyboard.InlineButtonsNPerRow(buttons, 2)
}

// ProductMarkup builds the level-1 keyboard around the product currently
// shown: buy, back to categories, and pager buttons that appear only when a
// neighbouring page exists.
func ProductMarkup(categoryID int64, page int, productID int64, hasPrev, hasNext bool) *tele.ReplyMarkup {
	var rows [][]keyboard.InlineBtn

	rows = append(rows, []keyboard.InlineBtn{
		{
			Text:   "Buy 💵",
			Unique: CallbackCart,
			Data:   CartPayload{Action: CartAdd, Page: page, ProductID: productID}.Encode(),
		},
		{
			Text:   "Back",
			Unique: CallbackMenu,
			Data:   MenuPayload{Level: 0, MenuName: MenuCatalog, Page: 1}.Encode(),
		},
	})

	var pager []keyboard.InlineBtn
	if hasPrev {
		pager = append(pager, keyboard.InlineBtn{
			Text:   "⬅ Prev.",
			Unique: CallbackMenu,
			Data: MenuPayload{
				Level: 1, MenuName: MenuProducts, CategoryID: categoryID, Page: page - 1,
			}.Encode(),
		})
	}
	if hasNext {
		pager = append(pager, keyboard.InlineBtn{
			Text:   "Next ➡",
			Unique: CallbackMenu,
			Data: MenuPayload{
				Level: 1, MenuName: MenuProducts, CategoryID: categoryID, Page: page + 1,
			}.Encode(),
		})
	}
	if len(pager) > 0 {
		rows = append(rows, pager)
	}
	return keyboard.InlineButtonsRows(rows...)
}

// CartMarkup builds the keyboard shown under the current cart line.
func CartMarkup(page int, productID int64, hasPrev, hasNext bool) *tele.ReplyMarkup {
	rows := [][]keyboard.InlineBtn{{
		{
			Text:   "Delete",
			Unique: CallbackCart,
			Data:   CartPayload{Action: CartDelete, Page: page, ProductID: productID}.Encode(),
		},
		{
			Text:   "-1",
			Unique: CallbackCart,
			Data:   CartPayload{Action: CartDecrement, Page: page, ProductID: productID}.Encode(),
		},
		{
			Text:   "+1",
			Unique: CallbackCart,
			Data:   CartPayload{Action: CartIncrement, Page: page, ProductID: productID}.Encode(),
		},
	}}

	var pager []keyboard.InlineBtn
	if hasPrev {
		pager = append(pager, keyboard.InlineBtn{
			Text:   "⬅ Prev.",
			Unique: CallbackCart,
			Data:   CartPayload{Action: CartShow, Page: page - 1}.Encode(),
		})
	}
	if hasNext {
		pager = append(pager, keyboard.InlineBtn{
			Text:   "Next ➡",
			Unique: CallbackCart,
			Data:   CartPayload{Action: CartShow, Page: page + 1}.Encode(),
		})
	}
	if len(pager) > 0 {
		rows = append(rows, pager)
	}

	rows = append(rows, []keyboard.InlineBtn{{
		Text:   "Order 🛒",
		Unique: CallbackCart,
		Data:   CartPayload{Action: CartOrder, Page: page}.Encode(),
	}})
	return keyboard.InlineButtonsRows(rows...)
}
