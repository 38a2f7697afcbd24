package ledger

import "sort"

// SaveSize is one size delta of a save-request bucket.
type SaveSize struct {
	SizeID   int `json:"sizeId"`
	Quantity int `json:"quantity"`
}

// SaveProduct is one product delta of a save-request bucket.
type SaveProduct struct {
	ProductID int        `json:"productId"`
	Sizes     []SaveSize `json:"sizes"`
}

// SaveRequest is the minimal delta payload persisted upstream. Opening and
// closing buckets are always sent empty: the upstream API is the sole
// authority for recomputing and storing balances server-side.
type SaveRequest struct {
	Date     string        `json:"date"`
	ShopID   int           `json:"shopId"`
	Receipts []SaveProduct `json:"receiptsProductsSummary"`
	Sales    []SaveProduct `json:"salesProductsSummary"`
	Breaks   []SaveProduct `json:"breaksProductsSummary"`
	Opening  []SaveProduct `json:"obProductsSummary"`
	Closing  []SaveProduct `json:"cbProductsSummary"`
}

// BuildSavePayload serializes the editable portion of a snapshot. Each bucket
// carries only sizes with quantity > 0, and a product is omitted from a
// bucket entirely when none of its sizes qualify.
func BuildSavePayload(s Snapshot) SaveRequest {
	req := SaveRequest{
		Date:     s.Date,
		ShopID:   s.ShopID,
		Receipts: []SaveProduct{},
		Sales:    []SaveProduct{},
		Breaks:   []SaveProduct{},
		Opening:  []SaveProduct{},
		Closing:  []SaveProduct{},
	}
	for _, category := range s.Categories {
		for _, item := range category.Items {
			if sizes := positiveSizes(item.Receipts); len(sizes) > 0 {
				req.Receipts = append(req.Receipts, SaveProduct{ProductID: int(item.ProductID), Sizes: sizes})
			}
			if sizes := positiveSizes(item.Sold); len(sizes) > 0 {
				req.Sales = append(req.Sales, SaveProduct{ProductID: int(item.ProductID), Sizes: sizes})
			}
			if sizes := positiveSizes(item.Broken); len(sizes) > 0 {
				req.Breaks = append(req.Breaks, SaveProduct{ProductID: int(item.ProductID), Sizes: sizes})
			}
		}
	}
	return req
}

func positiveSizes(values QuantityMap) []SaveSize {
	var sizes []SaveSize
	for size, quantity := range values {
		if quantity > 0 {
			sizes = append(sizes, SaveSize{SizeID: int(size), Quantity: quantity})
		}
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i].SizeID < sizes[j].SizeID })
	return sizes
}
