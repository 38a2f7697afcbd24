package ledger

// ApplyEdit validates one cell edit against the snapshot and, when accepted,
// returns a new snapshot with the changed item recalculated. Only the changed
// item and its parent category are rebuilt; unchanged siblings are shared
// with the input snapshot, which stays a consistent, unmutated value.
// On rejection the input snapshot is returned unchanged alongside the error.
func ApplyEdit(s Snapshot, product ProductID, size SizeID, field Field, rawText string) (Snapshot, Item, error) {
	catIndex, itemIndex, ok := locateItem(s, product)
	if !ok {
		return s, Item{}, ErrItemNotFound
	}
	item := s.Categories[catIndex].Items[itemIndex]
	if _, ok := item.Opening[size]; !ok {
		// The size set is fixed at build time and never grows from edits.
		return s, Item{}, ErrSizeNotFound
	}

	value, err := ValidateEdit(item, size, field, rawText)
	if err != nil {
		return s, Item{}, err
	}

	updated := item
	switch field {
	case FieldReceipts:
		updated.Receipts = cloneQuantities(item.Receipts)
		updated.Receipts[size] = value
	case FieldSold:
		updated.Sold = cloneQuantities(item.Sold)
		updated.Sold[size] = value
	case FieldBroken:
		updated.Broken = cloneQuantities(item.Broken)
		updated.Broken[size] = value
	}
	updated = Recalculate(updated)

	items := make([]Item, len(s.Categories[catIndex].Items))
	copy(items, s.Categories[catIndex].Items)
	items[itemIndex] = updated

	categories := make([]Category, len(s.Categories))
	copy(categories, s.Categories)
	categories[catIndex] = Category{Name: s.Categories[catIndex].Name, Items: items}

	next := s
	next.Categories = categories
	return next, updated, nil
}

func locateItem(s Snapshot, product ProductID) (int, int, bool) {
	for ci, category := range s.Categories {
		for ri, item := range category.Items {
			if item.ProductID == product {
				return ci, ri, true
			}
		}
	}
	return 0, 0, false
}
