package console

const (
	msgWishlistCreated   = "Success! Wishlist %d has been created"
	msgWishlistUpdated   = "Success! Wishlist %d has been updated"
	msgWishlistRetrieved = "Success! Wishlist %d has been retrieved"
	msgWishlistDeleted   = "Wishlist %d has been Deleted!"
	msgWishlistsFound    = "Success! Found %d wishlist(s)"

	msgItemCreated   = "Success! Item %d has been added to wishlist %d"
	msgItemRetrieved = "Success! Item %d has been retrieved"
	msgItemsFound    = "Success! Found %d item(s)"
	msgItemDeleted   = "Item %d has been deleted from wishlist %d"
	msgItemPurchased = "Success! Item %d has been purchased"

	msgServerError = "Server error!"
	msgPending     = "Please wait, the previous %s request is still in progress"
)

// Hints shown in front of the service's message when a call fails.
const (
	hintCreateWishlist   = "Could not create the wishlist, ERROR: "
	hintUpdateWishlist   = "Could not update the wishlist, ERROR: "
	hintRetrieveWishlist = "Could not find the wishlist, ERROR: "
	hintSearchWishlists  = "Could not search wishlists, ERROR: "
	hintCreateItem       = "You need a product id, product name and valid wishlist id, ERROR: "
	hintRetrieveItem     = "Make sure you are inputting the item id AND the wishlist id, ERROR: "
	hintSearchItems      = "Could not list the items of the wishlist, ERROR: "
	hintPurchaseItem     = "Could not purchase the item, ERROR: "
)

// Shape checks, one struct per precondition. Fields are checked in
// declaration order and the first failure is shown.
type (
	createWishlistInput struct {
		CustomerID string `label:"Customer ID" validate:"posint"`
	}
	updateWishlistInput struct {
		ID         string `label:"Wishlist ID" validate:"posint"`
		CustomerID string `label:"Customer ID" validate:"posint"`
	}
	wishlistRefInput struct {
		ID string `label:"Wishlist ID" validate:"posint"`
	}
	searchWishlistsInput struct {
		CustomerID string `label:"Customer ID" validate:"omitempty,posint"`
	}
	createItemInput struct {
		WishlistID string `label:"Wishlist ID" validate:"posint"`
		ItemID     string `label:"Product ID" validate:"posint"`
	}
	itemRefInput struct {
		WishlistID string `label:"Wishlist ID" validate:"posint"`
		ID         string `label:"Item ID" validate:"posint"`
	}
)
