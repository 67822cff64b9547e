package http

import (
	"net/http"

	"github.com/Wishlist-Squad/Wishlist/internal/domain"
)

// HTML form field names.
const (
	fieldWishlistID         = "wishlist_id"
	fieldWishlistName       = "wishlist_name"
	fieldWishlistCustomerID = "wishlist_customer_id"
	fieldItemID             = "item_id"
	fieldItemWishlistID     = "item_wishlist_id"
	fieldProductID          = "product_id"
	fieldProductName        = "product_name"
	fieldItemPurchased      = "item_purchased"
)

// stateFromForm reads the fields of a console page post exactly as typed.
// Results are never posted back.
func stateFromForm(r *http.Request) domain.ViewState {
	return domain.ViewState{
		Wishlist: domain.WishlistForm{
			ID:         r.PostFormValue(fieldWishlistID),
			Name:       r.PostFormValue(fieldWishlistName),
			CustomerID: r.PostFormValue(fieldWishlistCustomerID),
		},
		Item: domain.ItemForm{
			ID:         r.PostFormValue(fieldItemID),
			WishlistID: r.PostFormValue(fieldItemWishlistID),
			ItemID:     r.PostFormValue(fieldProductID),
			Name:       r.PostFormValue(fieldProductName),
			Purchased:  r.PostFormValue(fieldItemPurchased),
		},
	}
}
