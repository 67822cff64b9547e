package console

import (
	"context"
	"fmt"

	"github.com/Wishlist-Squad/Wishlist/internal/domain"
)

// CreateItem adds the product in the item fields to the wishlist in the item
// wishlist id field.
func (c *Controller) CreateItem(ctx context.Context, state domain.ViewState) Result {
	var res Result
	in := createItemInput{WishlistID: state.Item.WishlistID, ItemID: state.Item.ItemID}
	if invalid(in, &state, &res) {
		return res
	}
	wishlistID := id(in.WishlistID)
	res.wishlistID = wishlistID

	it, err := c.api.CreateItem(ctx, wishlistID, domain.ItemRequest{
		WishlistID: wishlistID,
		ItemID:     id(in.ItemID),
		Name:       state.Item.Name,
	})
	if err != nil {
		return failed(err, hintCreateItem, state, res)
	}
	res.itemID = it.ID
	state.ShowItem(*it)
	state.Flash = fmt.Sprintf(msgItemCreated, it.ID, wishlistID)
	return succeeded(state, res)
}

// RetrieveItem loads one item. On failure the item data fields are blanked and
// both ids are kept.
func (c *Controller) RetrieveItem(ctx context.Context, state domain.ViewState) Result {
	var res Result
	wishlistID, itemID, ok := c.itemRef(&state, &res)
	if !ok {
		return res
	}

	it, err := c.api.GetItem(ctx, wishlistID, itemID)
	if err != nil {
		state.ClearItemData()
		return failed(err, hintRetrieveItem, state, res)
	}
	state.ShowItem(*it)
	state.Flash = fmt.Sprintf(msgItemRetrieved, it.ID)
	return succeeded(state, res)
}

// SearchItems lists the items of a wishlist and copies the first one into the
// item fields.
func (c *Controller) SearchItems(ctx context.Context, state domain.ViewState) Result {
	var res Result
	if invalid(wishlistRefInput{ID: state.Item.WishlistID}, &state, &res) {
		return res
	}
	wishlistID := id(state.Item.WishlistID)
	res.wishlistID = wishlistID

	items, err := c.api.ListItems(ctx, wishlistID)
	if err != nil {
		return failed(err, hintSearchItems, state, res)
	}
	state.Results = domain.ItemTable(items)
	if len(items) > 0 {
		state.ShowItem(items[0])
	}
	state.Flash = fmt.Sprintf(msgItemsFound, len(items))
	return succeeded(state, res)
}

// DeleteItem removes one item from its wishlist.
func (c *Controller) DeleteItem(ctx context.Context, state domain.ViewState) Result {
	var res Result
	wishlistID, itemID, ok := c.itemRef(&state, &res)
	if !ok {
		return res
	}

	if err := c.api.DeleteItem(ctx, wishlistID, itemID); err != nil {
		return masked(err, state, res)
	}
	state.ClearItem()
	state.Flash = fmt.Sprintf(msgItemDeleted, itemID, wishlistID)
	return succeeded(state, res)
}

// PurchaseItem marks one item as purchased.
func (c *Controller) PurchaseItem(ctx context.Context, state domain.ViewState) Result {
	var res Result
	wishlistID, itemID, ok := c.itemRef(&state, &res)
	if !ok {
		return res
	}

	it, err := c.api.PurchaseItem(ctx, wishlistID, itemID)
	if err != nil {
		return failed(err, hintPurchaseItem, state, res)
	}
	state.ShowItem(*it)
	state.Flash = fmt.Sprintf(msgItemPurchased, it.ID)
	return succeeded(state, res)
}

// ClearItem blanks the item fields. It never calls the service.
func (c *Controller) ClearItem(state domain.ViewState) Result {
	state.ClearItem()
	return succeeded(state, Result{})
}

// itemRef validates the wishlist id and item id fields, in that order.
func (c *Controller) itemRef(state *domain.ViewState, res *Result) (wishlistID, itemID int64, ok bool) {
	in := itemRefInput{WishlistID: state.Item.WishlistID, ID: state.Item.ID}
	if invalid(in, state, res) {
		return 0, 0, false
	}
	wishlistID, itemID = id(in.WishlistID), id(in.ID)
	res.wishlistID, res.itemID = wishlistID, itemID
	return wishlistID, itemID, true
}
