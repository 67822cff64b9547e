package domain

import "strconv"

// ResultTable is a rendered search result: a header and rows of plain-text
// cells. Cells are escaped by the renderer, never pre-formatted as markup.
type ResultTable struct {
	Columns []string    `json:"columns"`
	Rows    []ResultRow `json:"rows"`
}

// ResultRow is one table row; len(Cells) == len(Columns).
type ResultRow struct {
	Cells []string `json:"cells"`
}

var (
	wishlistColumns = []string{"ID", "Customer ID", "Name", "Item ID", "Product ID", "Item Name", "Purchased"}
	itemColumns     = []string{"ID", "Wishlist ID", "Product ID", "Name", "Purchased"}
)

// WishlistTable expands wishlists into one row per contained item. A wishlist
// without items yields a single row with blank item cells.
func WishlistTable(wishlists []Wishlist) *ResultTable {
	t := &ResultTable{Columns: append([]string(nil), wishlistColumns...), Rows: []ResultRow{}}
	for _, w := range wishlists {
		head := []string{strconv.FormatInt(w.ID, 10), strconv.FormatInt(w.CustomerID, 10), w.Name}
		if len(w.Products) == 0 {
			t.Rows = append(t.Rows, ResultRow{Cells: append(head, "", "", "", "")})
			continue
		}
		for _, it := range w.Products {
			cells := make([]string, 0, len(wishlistColumns))
			cells = append(cells, head...)
			cells = append(cells,
				strconv.FormatInt(it.ID, 10),
				strconv.FormatInt(it.ItemID, 10),
				it.Name,
				strconv.FormatBool(it.Purchased),
			)
			t.Rows = append(t.Rows, ResultRow{Cells: cells})
		}
	}
	return t
}

// ItemTable renders one row per item.
func ItemTable(items []Item) *ResultTable {
	t := &ResultTable{Columns: append([]string(nil), itemColumns...), Rows: make([]ResultRow, 0, len(items))}
	for _, it := range items {
		t.Rows = append(t.Rows, ResultRow{Cells: []string{
			strconv.FormatInt(it.ID, 10),
			strconv.FormatInt(it.WishlistID, 10),
			strconv.FormatInt(it.ItemID, 10),
			it.Name,
			strconv.FormatBool(it.Purchased),
		}})
	}
	return t
}
