package ledger

import (
	"errors"
	"testing"
)

func stockItem() Item {
	return Recalculate(Item{
		ProductID: 7,
		Opening:   QuantityMap{5: 10},
		Receipts:  QuantityMap{5: 0},
		Sold:      QuantityMap{5: 0},
		Broken:    QuantityMap{5: 0},
		Prices:    PriceMap{5: 100},
	})
}

func TestValidateEdit_NumericRules(t *testing.T) {
	cases := []struct {
		name    string
		rawText string
		want    int
		wantErr error
	}{
		{"plain digits", "7", 7, nil},
		{"empty means zero", "", 0, nil},
		{"whitespace trimmed", " 3 ", 3, nil},
		{"negative text rejected by pattern", "-5", 0, ErrNonNumericInput},
		{"letters rejected", "abc", 0, ErrNonNumericInput},
		{"mixed rejected", "12a", 0, ErrNonNumericInput},
		{"decimal rejected", "1.5", 0, ErrNonNumericInput},
	}
	item := stockItem()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateEdit(item, 5, FieldReceipts, tc.rawText)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err == nil && got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestValidateEdit_StockBound(t *testing.T) {
	item := stockItem()

	if _, err := ValidateEdit(item, 5, FieldSold, "10"); err != nil {
		t.Fatalf("sold within available stock rejected: %v", err)
	}
	if _, err := ValidateEdit(item, 5, FieldSold, "11"); !errors.Is(err, ErrStockExceeded) {
		t.Fatalf("expected stock exceeded, got %v", err)
	}

	item.Broken[5] = 4
	if _, err := ValidateEdit(item, 5, FieldSold, "7"); !errors.Is(err, ErrStockExceeded) {
		t.Fatalf("sibling deduction must count against available stock, got %v", err)
	}
	if _, err := ValidateEdit(item, 5, FieldSold, "6"); err != nil {
		t.Fatalf("sold+broken equal to stock must pass: %v", err)
	}
}

func TestValidateEdit_ReceiptsUnbounded(t *testing.T) {
	item := stockItem()
	item.Sold[5] = 10

	got, err := ValidateEdit(item, 5, FieldReceipts, "100000")
	if err != nil {
		t.Fatalf("receipts edits have no upper bound: %v", err)
	}
	if got != 100000 {
		t.Fatalf("expected 100000, got %d", got)
	}
}

func TestValidateEdit_UnknownField(t *testing.T) {
	if _, err := ValidateEdit(stockItem(), 5, Field("ob"), "1"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestParseField(t *testing.T) {
	for _, valid := range []string{"receipts", "sold", "broken"} {
		if _, ok := ParseField(valid); !ok {
			t.Fatalf("field %q should parse", valid)
		}
	}
	if _, ok := ParseField("cb"); ok {
		t.Fatal("derived fields must not be editable")
	}
}
