package wizard

import "shopbot/core/telegram/state"

// Field keys shared by the product flow and the commit handlers.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
	FieldImage       = "image"
)

// Product flow states. Registered with the FSM dispatcher so free-text and
// photo updates reach the wizard while a flow is active.
const (
	StateProductName        state.State = "product_name"
	StateProductDescription state.State = "product_description"
	StateProductCategory    state.State = "product_category"
	StateProductPrice       state.State = "product_price"
	StateProductQuantity    state.State = "product_quantity"
	StateProductImage       state.State = "product_image"

	StateBannerImage state.State = "banner_image"
)

// ProductFlow collects the six product fields in order. During an edit every
// text step accepts "." to keep the current value; the category step is an
// inline choice and has no sentinel path.
var ProductFlow = Flow{
	Name: "product",
	Steps: []Step{
		{State: StateProductName, Field: FieldName, Prompt: "Enter the product name"},
		{State: StateProductDescription, Field: FieldDescription, Prompt: "Enter the product description"},
		{State: StateProductCategory, Field: FieldCategory, Prompt: "Choose a category"},
		{State: StateProductPrice, Field: FieldPrice, Prompt: "Enter the product price"},
		{State: StateProductQuantity, Field: FieldQuantity, Prompt: "Enter the product quantity"},
		{State: StateProductImage, Field: FieldImage, Prompt: "Send the product image"},
	},
}

// BannerFlow is a single step: a photo whose caption names the page it is for.
var BannerFlow = Flow{
	Name: "banner",
	Steps: []Step{
		{State: StateBannerImage, Field: FieldImage,
			Prompt: "Send a banner photo.\nIn the caption, specify the page the banner is for:"},
	},
}
