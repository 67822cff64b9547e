package console

import (
	"context"
	"fmt"

	"github.com/Wishlist-Squad/Wishlist/internal/domain"
)

// CreateWishlist creates a wishlist from the name and customer id fields.
func (c *Controller) CreateWishlist(ctx context.Context, state domain.ViewState) Result {
	var res Result
	if invalid(createWishlistInput{CustomerID: state.Wishlist.CustomerID}, &state, &res) {
		return res
	}

	w, err := c.api.CreateWishlist(ctx, domain.NewWishlistRequest(state.Wishlist.Name, id(state.Wishlist.CustomerID)))
	if err != nil {
		return failed(err, hintCreateWishlist, state, res)
	}
	res.wishlistID = w.ID
	state.ShowWishlist(*w)
	state.Flash = fmt.Sprintf(msgWishlistCreated, w.ID)
	return succeeded(state, res)
}

// UpdateWishlist replaces the name and customer of the wishlist in the id field.
func (c *Controller) UpdateWishlist(ctx context.Context, state domain.ViewState) Result {
	var res Result
	in := updateWishlistInput{ID: state.Wishlist.ID, CustomerID: state.Wishlist.CustomerID}
	if invalid(in, &state, &res) {
		return res
	}
	wishlistID := id(in.ID)
	res.wishlistID = wishlistID

	w, err := c.api.UpdateWishlist(ctx, wishlistID, domain.NewWishlistRequest(state.Wishlist.Name, id(in.CustomerID)))
	if err != nil {
		return failed(err, hintUpdateWishlist, state, res)
	}
	state.ShowWishlist(*w)
	state.Flash = fmt.Sprintf(msgWishlistUpdated, w.ID)
	return succeeded(state, res)
}

// RetrieveWishlist loads the wishlist in the id field. On failure the name and
// customer fields are blanked and the id is kept.
func (c *Controller) RetrieveWishlist(ctx context.Context, state domain.ViewState) Result {
	var res Result
	if invalid(wishlistRefInput{ID: state.Wishlist.ID}, &state, &res) {
		return res
	}
	wishlistID := id(state.Wishlist.ID)
	res.wishlistID = wishlistID

	w, err := c.api.GetWishlist(ctx, wishlistID)
	if err != nil {
		state.ClearWishlistData()
		return failed(err, hintRetrieveWishlist, state, res)
	}
	state.ShowWishlist(*w)
	state.Flash = fmt.Sprintf(msgWishlistRetrieved, w.ID)
	return succeeded(state, res)
}

// DeleteWishlist deletes the wishlist in the id field.
func (c *Controller) DeleteWishlist(ctx context.Context, state domain.ViewState) Result {
	var res Result
	if invalid(wishlistRefInput{ID: state.Wishlist.ID}, &state, &res) {
		return res
	}
	wishlistID := id(state.Wishlist.ID)
	res.wishlistID = wishlistID

	if err := c.api.DeleteWishlist(ctx, wishlistID); err != nil {
		return masked(err, state, res)
	}
	state.ClearWishlist()
	state.Flash = fmt.Sprintf(msgWishlistDeleted, wishlistID)
	return succeeded(state, res)
}

// SearchWishlists lists wishlists, filtered by customer when the customer
// field is filled in. The first match is copied into the form.
func (c *Controller) SearchWishlists(ctx context.Context, state domain.ViewState) Result {
	var res Result
	if invalid(searchWishlistsInput{CustomerID: state.Wishlist.CustomerID}, &state, &res) {
		return res
	}

	var customerID *int64
	if state.Wishlist.CustomerID != "" {
		cid := id(state.Wishlist.CustomerID)
		customerID = &cid
	}

	wishlists, err := c.api.ListWishlists(ctx, customerID)
	if err != nil {
		return failed(err, hintSearchWishlists, state, res)
	}
	state.Results = domain.WishlistTable(wishlists)
	if len(wishlists) > 0 {
		state.ShowWishlist(wishlists[0])
	}
	state.Flash = fmt.Sprintf(msgWishlistsFound, len(wishlists))
	return succeeded(state, res)
}

// ClearWishlist blanks the wishlist fields. It never calls the service.
func (c *Controller) ClearWishlist(state domain.ViewState) Result {
	state.ClearWishlist()
	return succeeded(state, Result{})
}
