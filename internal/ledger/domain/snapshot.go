package ledger

// SizeID identifies a product variant (size/denomination).
type SizeID int

// ProductID identifies a product; the scoping key for ledger items.
type ProductID int

// QuantityMap maps a size to a non-negative quantity. Keys are exactly the
// sizes observed in the product's opening-balance entry at build time.
type QuantityMap map[SizeID]int

// PriceMap maps a size to its unit price, sourced from the opening summary
// only; immutable for the lifetime of a snapshot.
type PriceMap map[SizeID]float64

// Item is the per-product row of the reconciliation ledger.
// Closing and the two value totals are derived; never edited directly.
type Item struct {
	ProductID         ProductID   `json:"productId"`
	DisplayName       string      `json:"displayName"`
	CategoryName      string      `json:"categoryName"`
	Opening           QuantityMap `json:"ob"`
	Receipts          QuantityMap `json:"receipts"`
	Sold              QuantityMap `json:"sold"`
	Broken            QuantityMap `json:"broken"`
	Closing           QuantityMap `json:"cb"`
	Prices            PriceMap    `json:"prices"`
	TotalClosingValue float64     `json:"totalClosingValue"`
	TotalSalesValue   float64     `json:"totalSalesValue"`
}

// Category groups ledger items under one category name, in build order.
type Category struct {
	Name  string `json:"category"`
	Items []Item `json:"items"`
}

// UnmatchedMovement records a receipts/sold/broken entry that targets a
// product or size with no opening-balance entry. Such movements are not
// represented in the snapshot; the count is surfaced instead of being
// dropped silently.
type UnmatchedMovement struct {
	Kind      Field     `json:"kind"`
	ProductID ProductID `json:"productId"`
	SizeID    SizeID    `json:"sizeId"`
	Quantity  int       `json:"quantity"`
}

// Snapshot is the full per-category, per-product, per-size movement ledger
// for one shop and one date. Snapshots are immutable values: accepted edits
// produce a new snapshot, and a save response replaces the current one
// wholesale.
type Snapshot struct {
	ShopID             int                 `json:"shopId"`
	Date               string              `json:"date"`
	Categories         []Category          `json:"categories"`
	UnmatchedMovements []UnmatchedMovement `json:"unmatchedMovements,omitempty"`
}

// Recalculate derives the closing balance and value totals of an item from
// its movement maps. The input is left untouched; callers must use the
// returned item. Calling it twice yields the same result as once.
func Recalculate(item Item) Item {
	closing := make(QuantityMap, len(item.Opening))
	var closingValue, salesValue float64
	for size, opening := range item.Opening {
		closing[size] = opening + item.Receipts[size] - item.Sold[size] - item.Broken[size]
		closingValue += float64(closing[size]) * item.Prices[size]
		salesValue += float64(item.Sold[size]) * item.Prices[size]
	}
	item.Closing = closing
	item.TotalClosingValue = closingValue
	item.TotalSalesValue = salesValue
	return item
}

func cloneQuantities(values QuantityMap) QuantityMap {
	clone := make(QuantityMap, len(values))
	for size, quantity := range values {
		clone[size] = quantity
	}
	return clone
}
