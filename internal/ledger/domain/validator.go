package ledger

import (
	"regexp"
	"strconv"
	"strings"
)

// Field names an editable movement column of the ledger grid.
type Field string

const (
	FieldReceipts Field = "receipts"
	FieldSold     Field = "sold"
	FieldBroken   Field = "broken"
)

// ParseField validates and normalizes an edit field name.
func ParseField(value string) (Field, bool) {
	switch Field(value) {
	case FieldReceipts, FieldSold, FieldBroken:
		return Field(value), true
	default:
		return "", false
	}
}

var unsignedIntPattern = regexp.MustCompile(`^\d*$`)

// ValidateEdit authorizes a proposed single-cell edit and returns the parsed
// quantity. Raw text must be digits only; empty text means 0. Sold and broken
// edits are bounded by opening+receipts minus the sibling deduction; receipts
// edits have no upper bound. Rejections carry ErrNonNumericInput or
// ErrStockExceeded and leave the item untouched.
func ValidateEdit(item Item, size SizeID, field Field, rawText string) (int, error) {
	text := strings.TrimSpace(rawText)
	if !unsignedIntPattern.MatchString(text) {
		return 0, ErrNonNumericInput
	}
	parsed, err := strconv.Atoi(text)
	if err != nil {
		parsed = 0
	}
	if parsed < 0 {
		parsed = 0
	}

	switch field {
	case FieldReceipts:
		return parsed, nil
	case FieldSold, FieldBroken:
		availableStock := item.Opening[size] + item.Receipts[size]
		otherDeduction := item.Broken[size]
		if field == FieldBroken {
			otherDeduction = item.Sold[size]
		}
		if parsed+otherDeduction > availableStock {
			return 0, ErrStockExceeded
		}
		return parsed, nil
	default:
		return 0, ErrUnknownField
	}
}
