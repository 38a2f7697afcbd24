package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	ledger "posadmin-cloud/internal/ledger/domain"
	"posadmin-cloud/internal/salesapi"
)

// Directory caches catalog names for grid display.
// It satisfies the ledger name resolver so snapshots can label
// products even when the upstream summaries omit names.
type Directory struct {
	client *salesapi.Client
	logger *log.Logger

	mu           sync.RWMutex
	productNames map[int]string
	sizeNames    map[int]string
	categories   map[int]string
}

// NewDirectory constructs a catalog directory.
func NewDirectory(client *salesapi.Client, logger *log.Logger) (*Directory, error) {
	if client == nil {
		return nil, errors.New("catalog: nil client")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Directory{
		client:       client,
		logger:       logger,
		productNames: make(map[int]string),
		sizeNames:    make(map[int]string),
		categories:   make(map[int]string),
	}, nil
}

// Refresh reloads product, size and category names for a shop.
// A partial failure keeps the previous cache for the entities that failed.
func (d *Directory) Refresh(ctx context.Context, shopID int) error {
	if shopID <= 0 {
		return errors.New("catalog: invalid shop id")
	}

	var firstErr error

	products, err := d.client.ListProducts(ctx, shopID)
	if err != nil {
		d.logger.Printf("catalog refresh products failed shop=%d err=%v", shopID, err)
		firstErr = err
	}
	sizes, err := d.client.ListSizes(ctx, shopID)
	if err != nil {
		d.logger.Printf("catalog refresh sizes failed shop=%d err=%v", shopID, err)
		if firstErr == nil {
			firstErr = err
		}
	}
	categories, err := d.client.ListCategories(ctx, shopID)
	if err != nil {
		d.logger.Printf("catalog refresh categories failed shop=%d err=%v", shopID, err)
		if firstErr == nil {
			firstErr = err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, product := range products {
		if product.Name != "" {
			d.productNames[product.ID] = product.Name
		}
	}
	for _, size := range sizes {
		if size.Name != "" {
			d.sizeNames[size.ID] = size.Name
		}
	}
	for _, category := range categories {
		if category.Name != "" {
			d.categories[category.ID] = category.Name
		}
	}
	return firstErr
}

// ProductName resolves a display name for a product id.
func (d *Directory) ProductName(productID ledger.ProductID) string {
	d.mu.RLock()
	name, ok := d.productNames[int(productID)]
	d.mu.RUnlock()
	if ok {
		return name
	}
	return fmt.Sprintf("Product #%d", int(productID))
}

// SizeName resolves a display name for a size id.
func (d *Directory) SizeName(sizeID ledger.SizeID) string {
	d.mu.RLock()
	name, ok := d.sizeNames[int(sizeID)]
	d.mu.RUnlock()
	if ok {
		return name
	}
	return fmt.Sprintf("Size #%d", int(sizeID))
}

// CategoryName resolves a display name for a category id.
func (d *Directory) CategoryName(categoryID int) string {
	d.mu.RLock()
	name, ok := d.categories[categoryID]
	d.mu.RUnlock()
	if ok {
		return name
	}
	return ledger.DefaultCategoryName
}
