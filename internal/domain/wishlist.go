package domain

// Wishlist is a named collection of items owned by a customer, as served by
// the wishlist service.
type Wishlist struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CustomerID int64  `json:"customer_id"`
	Products   []Item `json:"products"`
}

// Item is an entry in a wishlist. ItemID references the external product
// catalog.
type Item struct {
	ID         int64  `json:"id"`
	WishlistID int64  `json:"wishlist_id"`
	ItemID     int64  `json:"item_id"`
	Name       string `json:"name"`
	Purchased  bool   `json:"purchased"`
}

// WishlistRequest is the body of create and update wishlist calls.
type WishlistRequest struct {
	Name       string `json:"name"`
	CustomerID int64  `json:"customer_id"`
	Products   []Item `json:"products"`
}

// NewWishlistRequest builds a request body with an empty product list.
func NewWishlistRequest(name string, customerID int64) WishlistRequest {
	return WishlistRequest{Name: name, CustomerID: customerID, Products: []Item{}}
}

// ItemRequest is the body of a create item call.
type ItemRequest struct {
	WishlistID int64  `json:"wishlist_id"`
	ItemID     int64  `json:"item_id"`
	Name       string `json:"name"`
	Purchased  bool   `json:"purchased"`
}
