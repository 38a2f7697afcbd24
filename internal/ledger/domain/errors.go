package ledger

import "errors"

var (
	// ErrNonNumericInput is returned when edited text is not an unsigned integer.
	ErrNonNumericInput = errors.New("ledger: non-numeric input")
	// ErrStockExceeded is returned when sold+broken would exceed available stock.
	ErrStockExceeded = errors.New("ledger: exceeds available stock")
	// ErrUnknownField is returned for an edit on a non-editable field.
	ErrUnknownField = errors.New("ledger: unknown edit field")
	// ErrItemNotFound is returned when an edit targets an unknown product.
	ErrItemNotFound = errors.New("ledger: item not found")
	// ErrSizeNotFound is returned when an edit targets a size outside the item's opening set.
	ErrSizeNotFound = errors.New("ledger: size not found")
)
