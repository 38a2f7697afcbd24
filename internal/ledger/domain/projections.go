package ledger

import "sort"

// Projections are cross-item aggregates computed fresh from the current
// snapshot on every read. Snapshots are small, so full recomputation is
// cheaper than incremental maintenance.
type Projections struct {
	UniqueSizes            []SizeID `json:"uniqueSizes"`
	GrandTotalClosingValue float64  `json:"grandTotalClosingValue"`
	GrandTotalSalesValue   float64  `json:"grandTotalSalesValue"`
	GrandTotalBreaksValue  float64  `json:"grandTotalBreaksValue"`
	HasMovementData        bool     `json:"hasMovementData"`
}

// Project computes the snapshot's projections.
func Project(s Snapshot) Projections {
	sizeSet := make(map[SizeID]struct{})
	proj := Projections{}

	for _, category := range s.Categories {
		for _, item := range category.Items {
			for size := range item.Opening {
				sizeSet[size] = struct{}{}
			}
			proj.GrandTotalClosingValue += item.TotalClosingValue
			proj.GrandTotalSalesValue += item.TotalSalesValue
			for size, quantity := range item.Broken {
				proj.GrandTotalBreaksValue += float64(quantity) * item.Prices[size]
			}
			if !proj.HasMovementData {
				proj.HasMovementData = hasMovement(item)
			}
		}
	}

	proj.UniqueSizes = make([]SizeID, 0, len(sizeSet))
	for size := range sizeSet {
		proj.UniqueSizes = append(proj.UniqueSizes, size)
	}
	sort.Slice(proj.UniqueSizes, func(i, j int) bool { return proj.UniqueSizes[i] < proj.UniqueSizes[j] })
	return proj
}

func hasMovement(item Item) bool {
	for _, values := range []QuantityMap{item.Receipts, item.Sold, item.Broken} {
		for _, quantity := range values {
			if quantity > 0 {
				return true
			}
		}
	}
	return false
}
