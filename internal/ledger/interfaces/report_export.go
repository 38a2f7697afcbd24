package interfaces

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	ledger "posadmin-cloud/internal/ledger/domain"
)

// BuildReportPDF renders a minimal PDF for a daily report snapshot.
func BuildReportPDF(snapshot ledger.Snapshot) ([]byte, error) {
	projections := ledger.Project(snapshot)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Daily Sales Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Shop: %d", snapshot.ShopID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", snapshot.Date))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Sales Value: %.2f", projections.GrandTotalSalesValue))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Closing Value: %.2f", projections.GrandTotalClosingValue))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Breaks Value: %.2f", projections.GrandTotalBreaksValue))
	pdf.Ln(8)

	for _, category := range snapshot.Categories {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, category.Name)
		pdf.Ln(7)

		pdf.CellFormat(60, 6, "Product", "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, "Size", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Opening", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Receipts", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Sold", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Broken", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Closing", "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, "Price", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		for _, item := range category.Items {
			for _, size := range sortedSizes(item.Opening) {
				pdf.CellFormat(60, 6, item.DisplayName, "1", 0, "L", false, 0, "")
				pdf.CellFormat(25, 6, fmt.Sprintf("%d", int(size)), "1", 0, "C", false, 0, "")
				pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Opening[size]), "1", 0, "R", false, 0, "")
				pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Receipts[size]), "1", 0, "R", false, 0, "")
				pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Sold[size]), "1", 0, "R", false, 0, "")
				pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Broken[size]), "1", 0, "R", false, 0, "")
				pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Closing[size]), "1", 0, "R", false, 0, "")
				pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", item.Prices[size]), "1", 0, "R", false, 0, "")
				pdf.Ln(-1)
			}
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportXLSX renders a minimal XLSX for a daily report snapshot.
func BuildReportXLSX(snapshot ledger.Snapshot) ([]byte, error) {
	projections := ledger.Project(snapshot)

	f := excelize.NewFile()
	summarySheet := "summary"
	gridSheet := "grid"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(gridSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Daily Sales Report")
	_ = f.SetCellValue(summarySheet, "A3", "Shop")
	_ = f.SetCellValue(summarySheet, "B3", snapshot.ShopID)
	_ = f.SetCellValue(summarySheet, "A4", "Date")
	_ = f.SetCellValue(summarySheet, "B4", snapshot.Date)
	_ = f.SetCellValue(summarySheet, "A5", "Total Sales Value")
	_ = f.SetCellValue(summarySheet, "B5", projections.GrandTotalSalesValue)
	_ = f.SetCellValue(summarySheet, "A6", "Total Closing Value")
	_ = f.SetCellValue(summarySheet, "B6", projections.GrandTotalClosingValue)
	_ = f.SetCellValue(summarySheet, "A7", "Total Breaks Value")
	_ = f.SetCellValue(summarySheet, "B7", projections.GrandTotalBreaksValue)

	headers := []string{"Category", "Product", "Size", "Opening", "Receipts", "Sold", "Broken", "Closing", "Price"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(gridSheet, cell, header)
	}

	row := 2
	for _, category := range snapshot.Categories {
		for _, item := range category.Items {
			for _, size := range sortedSizes(item.Opening) {
				values := []any{
					category.Name,
					item.DisplayName,
					int(size),
					item.Opening[size],
					item.Receipts[size],
					item.Sold[size],
					item.Broken[size],
					item.Closing[size],
					item.Prices[size],
				}
				for i, value := range values {
					cell, err := excelize.CoordinatesToCellName(i+1, row)
					if err != nil {
						return nil, err
					}
					_ = f.SetCellValue(gridSheet, cell, value)
				}
				row++
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedSizes(values ledger.QuantityMap) []ledger.SizeID {
	sizes := make([]ledger.SizeID, 0, len(values))
	for size := range values {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
	return sizes
}
