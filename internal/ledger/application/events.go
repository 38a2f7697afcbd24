package application

// ReportSaved is published after a report is accepted upstream.
type ReportSaved struct {
	ShopID          int     `json:"shopId"`
	Date            string  `json:"date"`
	TotalSalesValue float64 `json:"totalSalesValue"`
}

// ReportSaveFailed is published when an upstream save is rejected.
type ReportSaveFailed struct {
	ShopID    int    `json:"shopId"`
	Date      string `json:"date"`
	Reason    string `json:"reason"`
	Published bool   `json:"published"`
}
