package ledger

import "fmt"

// DefaultCategoryName is used when an opening entry carries no category.
const DefaultCategoryName = "Uncategorized"

// NameResolver resolves a product's display name.
type NameResolver interface {
	ProductName(id ProductID) string
}

// BuildOption customizes snapshot building.
type BuildOption func(*buildOptions)

type buildOptions struct {
	names           NameResolver
	defaultCategory string
}

// WithNameResolver sets the product name resolver.
func WithNameResolver(names NameResolver) BuildOption {
	return func(o *buildOptions) { o.names = names }
}

// WithDefaultCategory overrides the fallback category name.
func WithDefaultCategory(name string) BuildOption {
	return func(o *buildOptions) {
		if name != "" {
			o.defaultCategory = name
		}
	}
}

// BuildSnapshot merges the five movement summaries of a report document into
// a ledger snapshot. The opening summary is authoritative for item existence
// and for each item's size set: receipts/sold/broken entries with no matching
// opening entry are not represented, only counted as unmatched movements.
// An empty or absent opening summary yields an empty snapshot; no data for a
// date is a normal, displayable state rather than a failure.
func BuildSnapshot(shopID int, date string, doc ReportDocument, opts ...BuildOption) Snapshot {
	options := buildOptions{defaultCategory: DefaultCategoryName}
	for _, opt := range opts {
		opt(&options)
	}

	snapshot := Snapshot{ShopID: shopID, Date: date}
	if len(doc.Opening) == 0 {
		return snapshot
	}

	receipts := indexSummaries(doc.Receipts)
	sold := indexSummaries(doc.Sales)
	broken := indexSummaries(doc.Breaks)

	categoryIndex := make(map[string]int)
	knownSizes := make(map[ProductID]map[SizeID]struct{}, len(doc.Opening))

	for _, entry := range doc.Opening {
		productID := ProductID(entry.ProductID)
		categoryName := entry.CategoryName
		if categoryName == "" {
			categoryName = options.defaultCategory
		}

		item := Item{
			ProductID:    productID,
			DisplayName:  resolveName(options.names, productID),
			CategoryName: categoryName,
			Opening:      make(QuantityMap, len(entry.Sizes)),
			Receipts:     make(QuantityMap, len(entry.Sizes)),
			Sold:         make(QuantityMap, len(entry.Sizes)),
			Broken:       make(QuantityMap, len(entry.Sizes)),
			Prices:       make(PriceMap, len(entry.Sizes)),
		}
		sizes := make(map[SizeID]struct{}, len(entry.Sizes))
		for _, line := range entry.Sizes {
			size := SizeID(line.SizeID)
			item.Opening[size] = line.Quantity
			item.Prices[size] = line.Price
			item.Receipts[size] = receipts.quantity(productID, size)
			item.Sold[size] = sold.quantity(productID, size)
			item.Broken[size] = broken.quantity(productID, size)
			sizes[size] = struct{}{}
		}
		knownSizes[productID] = sizes
		item = Recalculate(item)

		index, ok := categoryIndex[categoryName]
		if !ok {
			index = len(snapshot.Categories)
			categoryIndex[categoryName] = index
			snapshot.Categories = append(snapshot.Categories, Category{Name: categoryName})
		}
		snapshot.Categories[index].Items = append(snapshot.Categories[index].Items, item)
	}

	snapshot.UnmatchedMovements = collectUnmatched(knownSizes, doc)
	return snapshot
}

type summaryIndex map[ProductID]map[SizeID]int

func indexSummaries(summaries []ProductSummary) summaryIndex {
	index := make(summaryIndex, len(summaries))
	for _, entry := range summaries {
		lines := make(map[SizeID]int, len(entry.Sizes))
		for _, line := range entry.Sizes {
			lines[SizeID(line.SizeID)] = line.Quantity
		}
		index[ProductID(entry.ProductID)] = lines
	}
	return index
}

func (idx summaryIndex) quantity(product ProductID, size SizeID) int {
	return idx[product][size]
}

func collectUnmatched(known map[ProductID]map[SizeID]struct{}, doc ReportDocument) []UnmatchedMovement {
	var unmatched []UnmatchedMovement
	kinds := []struct {
		field     Field
		summaries []ProductSummary
	}{
		{FieldReceipts, doc.Receipts},
		{FieldSold, doc.Sales},
		{FieldBroken, doc.Breaks},
	}
	for _, kind := range kinds {
		for _, entry := range kind.summaries {
			productID := ProductID(entry.ProductID)
			sizes := known[productID]
			for _, line := range entry.Sizes {
				if line.Quantity == 0 {
					continue
				}
				if _, ok := sizes[SizeID(line.SizeID)]; ok {
					continue
				}
				unmatched = append(unmatched, UnmatchedMovement{
					Kind:      kind.field,
					ProductID: productID,
					SizeID:    SizeID(line.SizeID),
					Quantity:  line.Quantity,
				})
			}
		}
	}
	return unmatched
}

func resolveName(names NameResolver, id ProductID) string {
	if names != nil {
		if name := names.ProductName(id); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Product #%d", id)
}
