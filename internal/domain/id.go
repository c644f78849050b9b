package domain

import (
	"encoding/json"
	"strconv"
)

// HotelID is a record identifier that may be persisted as a JSON string or a
// JSON number. Both forms round-trip unchanged through the store.
type HotelID struct {
	value  string
	number bool
}

// ID builds a string-typed identifier.
func ID(s string) HotelID { return HotelID{value: s} }

// NumericID builds a number-typed identifier.
func NumericID(n int64) HotelID {
	return HotelID{value: strconv.FormatInt(n, 10), number: true}
}

func (id HotelID) String() string { return id.value }

// Truthy reports whether the id passes the create-time presence check,
// mirroring loose boolean coercion: an absent id, an empty string and the
// number zero all fail; the string "0" passes.
func (id HotelID) Truthy() bool {
	if id.value == "" {
		return false
	}
	if id.number {
		f, err := strconv.ParseFloat(id.value, 64)
		return err == nil && f != 0
	}
	return true
}

// Matches compares the id against a route parameter with loose equality:
// a number-typed id matches any parameter that parses to the same value,
// a string-typed id requires an exact match. "1" matches numeric 1 but not
// the string "01".
func (id HotelID) Matches(param string) bool {
	if id.number {
		want, err := strconv.ParseFloat(id.value, 64)
		if err != nil {
			return false
		}
		got, err := strconv.ParseFloat(param, 64)
		return err == nil && want == got
	}
	return id.value == param
}

// Equal is the strict comparison used by the create-time duplicate check:
// ids of different JSON types never collide.
func (id HotelID) Equal(other HotelID) bool {
	if id.number != other.number {
		return false
	}
	if id.number {
		a, err := strconv.ParseFloat(id.value, 64)
		if err != nil {
			return false
		}
		b, err := strconv.ParseFloat(other.value, 64)
		return err == nil && a == b
	}
	return id.value == other.value
}

func (id *HotelID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = HotelID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = HotelID{value: n.String(), number: true}
	return nil
}

func (id HotelID) MarshalJSON() ([]byte, error) {
	if id.number && id.value != "" {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}
