package model

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidRange     = errors.New("invalid range")
)

type SortOrder string

const (
	SortLatest    SortOrder = "latest"
	SortPriceAsc  SortOrder = "asc"
	SortPriceDesc SortOrder = "desc"
)

const (
	DefaultPropertyCount = 12
	MaxPropertyCount     = 100
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortLatest, SortPriceAsc, SortPriceDesc:
		return SortOrder(s), nil
	case "":
		return SortLatest, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
}

// Range is an inclusive numeric bound written as "min-max". Bounds must fit
// in a signed 64-bit column.
type Range struct {
	Min uint64 `json:"min"`
	Max uint64 `json:"max"`
}

func ParseRange(s string) (*Range, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}

	min, err := strconv.ParseUint(strings.TrimSpace(lo), 10, 63)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	max, err := strconv.ParseUint(strings.TrimSpace(hi), 10, 63)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	if min > max {
		return nil, fmt.Errorf("%w: min greater than max in %q", ErrInvalidRange, s)
	}

	return &Range{Min: min, Max: max}, nil
}

func (r *Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

type PropertyFilter struct {
	Type             ListingType      `json:"type,omitempty"`
	PropertyType     PropertyType     `json:"apartment_type,omitempty"`
	BHK              []BHK            `json:"bhk,omitempty"`
	Price            *Range           `json:"price,omitempty"`
	Area             *Range           `json:"area,omitempty"`
	PreferredTenants PreferredTenants `json:"preferredTenants,omitempty"`
}

// FilterFromQuery builds a PropertyFilter from listing query parameters.
// bhk may be repeated or comma separated. Unknown enum values are rejected.
func FilterFromQuery(q url.Values) (PropertyFilter, error) {
	var f PropertyFilter

	if v := q.Get("type"); v != "" {
		f.Type = ListingType(strings.ToUpper(v))
		if !f.Type.Valid() {
			return f, fmt.Errorf("unknown listing type %q", v)
		}
	}

	if v := q.Get("apartment_type"); v != "" {
		f.PropertyType = PropertyType(strings.ToUpper(v))
		if !f.PropertyType.Valid() {
			return f, fmt.Errorf("unknown property type %q", v)
		}
	}

	for _, raw := range q["bhk"] {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			b := BHK(strings.ToUpper(v))
			if !b.Valid() {
				return f, fmt.Errorf("unknown bhk %q", v)
			}
			f.BHK = append(f.BHK, b)
		}
	}

	if v := q.Get("price"); v != "" {
		r, err := ParseRange(v)
		if err != nil {
			return f, err
		}
		f.Price = r
	}

	if v := q.Get("area"); v != "" {
		r, err := ParseRange(v)
		if err != nil {
			return f, err
		}
		f.Area = r
	}

	if v := q.Get("preferredTenants"); v != "" {
		f.PreferredTenants = PreferredTenants(strings.ToUpper(v))
		if !f.PreferredTenants.Valid() {
			return f, fmt.Errorf("unknown tenant preference %q", v)
		}
	}

	return f, nil
}

// ClampCount bounds the number of listings a single query may return.
func ClampCount(n int) int {
	if n <= 0 {
		return DefaultPropertyCount
	}
	if n > MaxPropertyCount {
		return MaxPropertyCount
	}
	return n
}
