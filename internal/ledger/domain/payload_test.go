package ledger

import (
	"reflect"
	"testing"
)

func TestBuildSavePayload_MinimalDeltas(t *testing.T) {
	snapshot := Snapshot{
		ShopID: 3,
		Date:   "2025-03-14",
		Categories: []Category{
			{Name: "Rum", Items: []Item{
				{
					ProductID: 7,
					Opening:   QuantityMap{10: 5, 11: 5},
					Receipts:  QuantityMap{10: 0, 11: 5},
					Sold:      QuantityMap{10: 3, 11: 0},
					Broken:    QuantityMap{10: 0, 11: 0},
				},
			}},
		},
	}

	req := BuildSavePayload(snapshot)
	if req.Date != "2025-03-14" || req.ShopID != 3 {
		t.Fatalf("unexpected header: %+v", req)
	}
	wantSales := []SaveProduct{{ProductID: 7, Sizes: []SaveSize{{SizeID: 10, Quantity: 3}}}}
	if !reflect.DeepEqual(req.Sales, wantSales) {
		t.Fatalf("unexpected sales bucket: %+v", req.Sales)
	}
	wantReceipts := []SaveProduct{{ProductID: 7, Sizes: []SaveSize{{SizeID: 11, Quantity: 5}}}}
	if !reflect.DeepEqual(req.Receipts, wantReceipts) {
		t.Fatalf("unexpected receipts bucket: %+v", req.Receipts)
	}
	if len(req.Breaks) != 0 {
		t.Fatalf("product without breakage must be absent from the breaks bucket: %+v", req.Breaks)
	}
	if req.Opening == nil || len(req.Opening) != 0 || req.Closing == nil || len(req.Closing) != 0 {
		t.Fatalf("ob/cb buckets must be present and empty: %+v", req)
	}
}

func TestBuildSavePayload_SortsSizes(t *testing.T) {
	snapshot := Snapshot{
		Categories: []Category{
			{Items: []Item{
				{
					ProductID: 1,
					Opening:   QuantityMap{30: 1, 10: 1, 20: 1},
					Receipts:  QuantityMap{30: 2, 10: 4, 20: 1},
				},
			}},
		},
	}

	req := BuildSavePayload(snapshot)
	want := []SaveSize{{SizeID: 10, Quantity: 4}, {SizeID: 20, Quantity: 1}, {SizeID: 30, Quantity: 2}}
	if !reflect.DeepEqual(req.Receipts[0].Sizes, want) {
		t.Fatalf("sizes must be sorted ascending: %+v", req.Receipts[0].Sizes)
	}
}
