package salesapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ledger "posadmin-cloud/internal/ledger/domain"
)

func TestGetSalesReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/SalesReport/3/2025-03-14" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Fatalf("unexpected auth header %q", got)
		}
		doc := ledger.ReportDocument{
			Date:   "2025-03-14",
			ShopID: 3,
			Opening: []ledger.ProductSummary{
				{ProductID: 7, Sizes: []ledger.SizeSummary{{SizeID: 10, Quantity: 12, Price: 40}}},
			},
		}
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "token-1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	doc, err := client.GetSalesReport(context.Background(), 3, "2025-03-14")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if doc.ShopID != 3 || len(doc.Opening) != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Opening[0].Sizes[0].Quantity != 12 {
		t.Fatalf("unexpected opening quantity %d", doc.Opening[0].Sizes[0].Quantity)
	}
}

func TestSaveSalesReport_UpstreamMessageSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/SalesReport/save" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Report is already published"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.SaveSalesReport(context.Background(), ledger.SaveRequest{Date: "2025-03-14", ShopID: 3})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Report is already published" {
		t.Fatalf("expected upstream message, got %q", err.Error())
	}
}

func TestGetSalesReport_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.GetSalesReport(context.Background(), 3, "2025-03-14")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Product/shop/3" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		products := []Product{
			{ID: 7, Name: "Dark Rum", CategoryID: 2, ShopID: 3, Variants: []ProductVariant{{SizeID: 10, Price: 40, Quantity: 12}}},
		}
		_ = json.NewEncoder(w).Encode(products)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	products, err := client.ListProducts(context.Background(), 3)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Dark Rum" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestNewClient_EmptyBaseURL(t *testing.T) {
	if _, err := NewClient("", "token"); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
