package validation

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Quantity carries a quantity exactly as the client sent it, so coercion
// happens in one place instead of inside the JSON decoder.
// The zero value means the field was absent.
type Quantity struct {
	present   bool
	quoted    bool
	malformed bool
	text      string
}

// QuantityOf returns a present Quantity holding an integer literal.
func QuantityOf(n int) Quantity {
	return Quantity{present: true, text: strconv.Itoa(n)}
}

// QuantityLiteral returns a present Quantity holding a raw JSON number
// such as "2.5". A literal that is not a JSON number is kept as malformed.
func QuantityLiteral(lit string) Quantity {
	var q Quantity
	_ = q.UnmarshalJSON([]byte(lit))
	return q
}

// QuantityFromString returns a present Quantity holding a JSON string.
func QuantityFromString(s string) Quantity {
	return Quantity{present: true, quoted: true, text: s}
}

// Present reports whether a non-null value was supplied.
func (q Quantity) Present() bool {
	return q.present
}

// UnmarshalJSON accepts any JSON value. Numbers and strings keep their
// text for later coercion; null counts as absent; anything else is
// recorded as malformed and rejected by the validator.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*q = Quantity{}

	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		q.present, q.quoted, q.text = true, true, s
	case isNumber(b):
		q.present, q.text = true, string(b)
	default:
		q.present, q.malformed = true, true
	}
	return nil
}

// MarshalJSON writes the value back in the shape it was received.
func (q Quantity) MarshalJSON() ([]byte, error) {
	switch {
	case !q.present:
		return []byte("null"), nil
	case q.malformed:
		return []byte("{}"), nil
	case q.quoted:
		return json.Marshal(q.text)
	default:
		return []byte(q.text), nil
	}
}

func isNumber(b []byte) bool {
	if len(b) == 0 || !(b[0] == '-' || (b[0] >= '0' && b[0] <= '9')) {
		return false
	}
	var n json.Number
	return json.Unmarshal(b, &n) == nil
}
