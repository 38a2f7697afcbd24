package catalog

import (
	"context"
	"errors"
	"log"

	"posadmin-cloud/internal/observability/metrics"
	"posadmin-cloud/internal/salesapi"
)

// Service exposes catalog CRUD, passed through to the upstream API.
// Writes invalidate the directory cache for the affected shop.
type Service struct {
	client    *salesapi.Client
	directory *Directory
	logger    *log.Logger
}

// NewService constructs a catalog service.
func NewService(client *salesapi.Client, directory *Directory, logger *log.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New("catalog: nil client")
	}
	if directory == nil {
		return nil, errors.New("catalog: nil directory")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{client: client, directory: directory, logger: logger}, nil
}

// ListProducts returns products for a shop.
func (s *Service) ListProducts(ctx context.Context, shopID int) ([]salesapi.Product, error) {
	products, err := s.client.ListProducts(ctx, shopID)
	s.observe("product", err)
	return products, err
}

// SaveProduct creates or updates a product.
func (s *Service) SaveProduct(ctx context.Context, product salesapi.Product) (salesapi.Product, error) {
	saved, err := s.client.SaveProduct(ctx, product)
	s.observe("product", err)
	if err == nil {
		s.refresh(ctx, saved.ShopID)
	}
	return saved, err
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, shopID, productID int) error {
	err := s.client.DeleteProduct(ctx, productID)
	s.observe("product", err)
	if err == nil {
		s.refresh(ctx, shopID)
	}
	return err
}

// ListCategories returns categories for a shop.
func (s *Service) ListCategories(ctx context.Context, shopID int) ([]salesapi.Category, error) {
	categories, err := s.client.ListCategories(ctx, shopID)
	s.observe("category", err)
	return categories, err
}

// SaveCategory creates or updates a category.
func (s *Service) SaveCategory(ctx context.Context, category salesapi.Category) (salesapi.Category, error) {
	saved, err := s.client.SaveCategory(ctx, category)
	s.observe("category", err)
	if err == nil {
		s.refresh(ctx, saved.ShopID)
	}
	return saved, err
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, shopID, categoryID int) error {
	err := s.client.DeleteCategory(ctx, categoryID)
	s.observe("category", err)
	if err == nil {
		s.refresh(ctx, shopID)
	}
	return err
}

// ListSizes returns size definitions for a shop.
func (s *Service) ListSizes(ctx context.Context, shopID int) ([]salesapi.ProductSize, error) {
	sizes, err := s.client.ListSizes(ctx, shopID)
	s.observe("size", err)
	return sizes, err
}

// SaveSize creates or updates a size definition.
func (s *Service) SaveSize(ctx context.Context, size salesapi.ProductSize) (salesapi.ProductSize, error) {
	saved, err := s.client.SaveSize(ctx, size)
	s.observe("size", err)
	if err == nil {
		s.refresh(ctx, saved.ShopID)
	}
	return saved, err
}

// DeleteSize removes a size definition.
func (s *Service) DeleteSize(ctx context.Context, shopID, sizeID int) error {
	err := s.client.DeleteSize(ctx, sizeID)
	s.observe("size", err)
	if err == nil {
		s.refresh(ctx, shopID)
	}
	return err
}

func (s *Service) observe(entity string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveCatalogRequest(entity, result)
}

func (s *Service) refresh(ctx context.Context, shopID int) {
	if shopID <= 0 {
		return
	}
	if err := s.directory.Refresh(ctx, shopID); err != nil {
		s.logger.Printf("catalog directory refresh failed shop=%d err=%v", shopID, err)
	}
}
