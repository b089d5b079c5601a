package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LowStockThreshold is the highest quantity that still raises the
// low-stock advisory.
const LowStockThreshold = 3

// ErrValidation is wrapped by every rejection below.
var ErrValidation = errors.New("validation failed")

var (
	ErrMissingName     = fmt.Errorf("%w: name is required", ErrValidation)
	ErrMissingQuantity = fmt.Errorf("%w: quantity is required", ErrValidation)
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
)

// Product is a normalized, persistence-ready product payload.
type Product struct {
	Name     string
	Quantity int
	LowStock bool
}

// ValidateProduct checks a full (name, quantity) pair.
func ValidateProduct(name *string, quantity Quantity) (Product, error) {
	if name == nil {
		return Product{}, ErrMissingName
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return Product{}, ErrMissingName
	}

	if !quantity.Present() {
		return Product{}, ErrMissingQuantity
	}
	q, err := coerceQuantity(quantity)
	if err != nil {
		return Product{}, err
	}

	return Product{Name: trimmed, Quantity: q, LowStock: IsLowStock(q)}, nil
}

// ValidateQuantityOnly checks the quantity of a quantity-only update.
// An absent value is not a positive integer either.
func ValidateQuantityOnly(quantity Quantity) (int, error) {
	return coerceQuantity(quantity)
}

// IsLowStock reports whether q should carry the low-stock advisory.
func IsLowStock(q int) bool {
	return q <= LowStockThreshold
}

// coerceQuantity accepts a JSON integer literal or a string holding a
// base-10 integer (surrounding spaces allowed). Fractions and exponents
// are rejected rather than truncated.
func coerceQuantity(quantity Quantity) (int, error) {
	if !quantity.present || quantity.malformed {
		return 0, ErrInvalidQuantity
	}

	text := quantity.text
	if quantity.quoted {
		text = strings.TrimSpace(text)
	}

	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil || n <= 0 {
		return 0, ErrInvalidQuantity
	}
	return int(n), nil
}
