package salesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ledger "posadmin-cloud/internal/ledger/domain"
)

// Client is a minimal REST client for the upstream sales API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// ClientOption customizes client construction.
type ClientOption func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// NewClient constructs an upstream sales API client.
func NewClient(baseURL, token string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("salesapi: empty base url")
	}
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// UpstreamError carries the status and message body of a failed upstream call.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("salesapi: http %d", e.StatusCode)
}

var errNotFound = errors.New("salesapi: not found")

// IsNotFound reports whether err represents an upstream 404.
func IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// Product is an upstream catalog product.
type Product struct {
	ID         int              `json:"id"`
	Name       string           `json:"name"`
	CategoryID int              `json:"categoryId"`
	ShopID     int              `json:"shopId"`
	Variants   []ProductVariant `json:"variants"`
}

// ProductVariant is one size/price row of a product.
type ProductVariant struct {
	SizeID   int     `json:"sizeId"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Category is an upstream product category.
type Category struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	ShopID int    `json:"shopId"`
}

// ProductSize is an upstream size definition.
type ProductSize struct {
	ID       int    `json:"productSizeId"`
	Name     string `json:"name"`
	ShopID   int    `json:"shopId"`
	IsActive bool   `json:"isActive"`
}

// GetSalesReport fetches the daily movement summaries for one shop and date.
func (c *Client) GetSalesReport(ctx context.Context, shopID int, date string) (ledger.ReportDocument, error) {
	if shopID <= 0 {
		return ledger.ReportDocument{}, errors.New("salesapi: invalid shop id")
	}
	if date == "" {
		return ledger.ReportDocument{}, errors.New("salesapi: empty date")
	}
	var doc ledger.ReportDocument
	path := fmt.Sprintf("/api/SalesReport/%d/%s", shopID, url.PathEscape(date))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &doc); err != nil {
		return ledger.ReportDocument{}, err
	}
	return doc, nil
}

// SaveSalesReport publishes the edited movements and returns the stored document.
func (c *Client) SaveSalesReport(ctx context.Context, req ledger.SaveRequest) (ledger.ReportDocument, error) {
	var doc ledger.ReportDocument
	if err := c.doJSON(ctx, http.MethodPost, "/api/SalesReport/save", req, &doc); err != nil {
		return ledger.ReportDocument{}, err
	}
	return doc, nil
}

// GetFullSalesReport fetches all stored report documents for a shop up to a date.
func (c *Client) GetFullSalesReport(ctx context.Context, shopID int, date string) ([]ledger.ReportDocument, error) {
	if shopID <= 0 {
		return nil, errors.New("salesapi: invalid shop id")
	}
	path := fmt.Sprintf("/api/SalesReport/all/%d", shopID)
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	var docs []ledger.ReportDocument
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListProducts fetches products for a shop.
func (c *Client) ListProducts(ctx context.Context, shopID int) ([]Product, error) {
	var products []Product
	path := fmt.Sprintf("/api/Product/shop/%d", shopID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SaveProduct creates or updates a product.
func (c *Client) SaveProduct(ctx context.Context, product Product) (Product, error) {
	var saved Product
	if err := c.doJSON(ctx, http.MethodPost, "/api/Product/save", product, &saved); err != nil {
		return Product{}, err
	}
	return saved, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, productID int) error {
	path := fmt.Sprintf("/api/Product/%d", productID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// ListCategories fetches categories for a shop.
func (c *Client) ListCategories(ctx context.Context, shopID int) ([]Category, error) {
	var categories []Category
	path := fmt.Sprintf("/api/Category/shop/%d", shopID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SaveCategory creates or updates a category.
func (c *Client) SaveCategory(ctx context.Context, category Category) (Category, error) {
	var saved Category
	if err := c.doJSON(ctx, http.MethodPost, "/api/Category/save", category, &saved); err != nil {
		return Category{}, err
	}
	return saved, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, categoryID int) error {
	path := fmt.Sprintf("/api/Category/%d", categoryID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// ListSizes fetches size definitions for a shop.
func (c *Client) ListSizes(ctx context.Context, shopID int) ([]ProductSize, error) {
	var sizes []ProductSize
	path := fmt.Sprintf("/api/ProductSize/shop/%d", shopID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &sizes); err != nil {
		return nil, err
	}
	return sizes, nil
}

// SaveSize creates or updates a size definition.
func (c *Client) SaveSize(ctx context.Context, size ProductSize) (ProductSize, error) {
	var saved ProductSize
	if err := c.doJSON(ctx, http.MethodPost, "/api/ProductSize/save", size, &saved); err != nil {
		return ProductSize{}, err
	}
	return saved, nil
}

// DeleteSize removes a size definition.
func (c *Client) DeleteSize(ctx context.Context, sizeID int) error {
	path := fmt.Sprintf("/api/ProductSize/%d", sizeID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode >= 300 {
		var envelope errorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		message := envelope.Message
		if message == "" {
			message = envelope.Error
		}
		return &UpstreamError{StatusCode: resp.StatusCode, Message: message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
