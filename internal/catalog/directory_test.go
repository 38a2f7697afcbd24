package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	ledger "posadmin-cloud/internal/ledger/domain"
	"posadmin-cloud/internal/salesapi"
)

func newTestDirectory(t *testing.T, serverURL string) *Directory {
	t.Helper()
	client, err := salesapi.NewClient(serverURL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	logger := log.New(os.Stderr, "", 0)
	directory, err := NewDirectory(client, logger)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	return directory
}

func TestDirectoryRefreshAndResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Product/shop/3":
			_ = json.NewEncoder(w).Encode([]salesapi.Product{
				{ID: 7, Name: "Dark Rum", CategoryID: 2, ShopID: 3},
			})
		case "/api/ProductSize/shop/3":
			_ = json.NewEncoder(w).Encode([]salesapi.ProductSize{
				{ID: 10, Name: "750ml", ShopID: 3, IsActive: true},
			})
		case "/api/Category/shop/3":
			_ = json.NewEncoder(w).Encode([]salesapi.Category{
				{ID: 2, Name: "Rum", ShopID: 3},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	directory := newTestDirectory(t, server.URL)
	if err := directory.Refresh(context.Background(), 3); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if got := directory.ProductName(ledger.ProductID(7)); got != "Dark Rum" {
		t.Fatalf("expected Dark Rum, got %q", got)
	}
	if got := directory.SizeName(ledger.SizeID(10)); got != "750ml" {
		t.Fatalf("expected 750ml, got %q", got)
	}
	if got := directory.CategoryName(2); got != "Rum" {
		t.Fatalf("expected Rum, got %q", got)
	}
}

func TestDirectoryFallbackNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	directory := newTestDirectory(t, server.URL)
	if got := directory.ProductName(ledger.ProductID(99)); got != "Product #99" {
		t.Fatalf("expected fallback name, got %q", got)
	}
	if got := directory.SizeName(ledger.SizeID(42)); got != "Size #42" {
		t.Fatalf("expected fallback name, got %q", got)
	}
	if got := directory.CategoryName(5); got != ledger.DefaultCategoryName {
		t.Fatalf("expected default category, got %q", got)
	}
}

func TestDirectoryRefreshKeepsCacheOnFailure(t *testing.T) {
	failing := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch r.URL.Path {
		case "/api/Product/shop/3":
			_ = json.NewEncoder(w).Encode([]salesapi.Product{{ID: 7, Name: "Dark Rum", ShopID: 3}})
		default:
			_ = json.NewEncoder(w).Encode([]any{})
		}
	}))
	defer server.Close()

	directory := newTestDirectory(t, server.URL)
	if err := directory.Refresh(context.Background(), 3); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	failing = true
	if err := directory.Refresh(context.Background(), 3); err == nil {
		t.Fatal("expected refresh error")
	}
	if got := directory.ProductName(ledger.ProductID(7)); got != "Dark Rum" {
		t.Fatalf("expected cached name, got %q", got)
	}
}
