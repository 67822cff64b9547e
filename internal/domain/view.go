package domain

import "strconv"

// WishlistForm holds the wishlist fields exactly as typed.
type WishlistForm struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CustomerID string `json:"customer_id"`
}

// ItemForm holds the item fields exactly as typed. ItemID is the product
// reference.
type ItemForm struct {
	ID         string `json:"id"`
	WishlistID string `json:"wishlist_id"`
	ItemID     string `json:"item_id"`
	Name       string `json:"name"`
	Purchased  string `json:"purchased"`
}

// ViewState is everything one page render shows. Actions take a ViewState
// and return the next one; renderers read nothing else.
type ViewState struct {
	Wishlist WishlistForm `json:"wishlist"`
	Item     ItemForm     `json:"item"`
	Flash    string       `json:"flash"`
	Results  *ResultTable `json:"results,omitempty"`
}

// ShowWishlist overwrites the three wishlist fields with w.
func (v *ViewState) ShowWishlist(w Wishlist) {
	v.Wishlist = WishlistForm{
		ID:         formatID(w.ID),
		Name:       w.Name,
		CustomerID: formatID(w.CustomerID),
	}
}

// ClearWishlistData blanks the wishlist fields except the id.
func (v *ViewState) ClearWishlistData() {
	v.Wishlist.Name = ""
	v.Wishlist.CustomerID = ""
}

// ClearWishlist blanks every wishlist field.
func (v *ViewState) ClearWishlist() {
	v.Wishlist = WishlistForm{}
}

// ShowItem overwrites the item fields with it.
func (v *ViewState) ShowItem(it Item) {
	v.Item = ItemForm{
		ID:         formatID(it.ID),
		WishlistID: formatID(it.WishlistID),
		ItemID:     formatID(it.ItemID),
		Name:       it.Name,
		Purchased:  strconv.FormatBool(it.Purchased),
	}
}

// ClearItemData blanks the item fields except the item id and wishlist id.
func (v *ViewState) ClearItemData() {
	v.Item.ItemID = ""
	v.Item.Name = ""
	v.Item.Purchased = ""
}

// ClearItem blanks every item field.
func (v *ViewState) ClearItem() {
	v.Item = ItemForm{}
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
