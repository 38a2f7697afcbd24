package ledger

// SizeSummary is one size line of an upstream per-product movement summary.
type SizeSummary struct {
	SizeID   int     `json:"sizeId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Amount   float64 `json:"amount"`
}

// ProductSummary is one product entry of an upstream movement summary.
type ProductSummary struct {
	ProductID    int           `json:"productId"`
	CategoryName string        `json:"categoryName,omitempty"`
	Sizes        []SizeSummary `json:"sizes"`
	TotalAmount  float64       `json:"totalAmount"`
}

// ReportDocument is the upstream sales-report document: five independent
// per-category movement summaries for one shop and date. It is both the
// fetch result and the save response.
type ReportDocument struct {
	Date                string           `json:"date"`
	ShopID              int              `json:"shopId"`
	Opening             []ProductSummary `json:"obProductsSummary"`
	Receipts            []ProductSummary `json:"receiptsProductsSummary"`
	Sales               []ProductSummary `json:"salesProductsSummary"`
	Breaks              []ProductSummary `json:"breaksProductsSummary"`
	Closing             []ProductSummary `json:"cbProductsSummary"`
	TotalReceiptsAmount float64          `json:"totalReceiptsAmount"`
	TotalSalesAmount    float64          `json:"totalSalesAmount"`
	TotalBreaksAmount   float64          `json:"totalBreaksAmount"`
	OverallTotalAmount  float64          `json:"overallTotalAmount"`
}
