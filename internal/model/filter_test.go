package model

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    SortOrder
		wantErr bool
	}{
		{"", SortLatest, false},
		{"latest", SortLatest, false},
		{"asc", SortPriceAsc, false},
		{"desc", SortPriceDesc, false},
		{"random", "", true},
		{"ASC", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSortOrder(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidSortOrder, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("1000-5000")
	require.NoError(t, err)
	assert.Equal(t, &Range{Min: 1000, Max: 5000}, r)
	assert.Equal(t, "1000-5000", r.String())

	r, err = ParseRange("0-9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, uint64(9223372036854775807), r.Max)

	r, err = ParseRange(" 10 - 10 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), r.Min)

	for _, bad := range []string{"", "100", "a-b", "5-1", "-5", "0-18446744073709551615", "0-9223372036854775808"} {
		_, err := ParseRange(bad)
		assert.ErrorIs(t, err, ErrInvalidRange, bad)
	}
}

func TestFilterFromQuery(t *testing.T) {
	q := url.Values{
		"type":             {"rent"},
		"apartment_type":   {"Apartment"},
		"bhk":              {"bhk1,BHK2", "rk1"},
		"price":            {"100-900"},
		"area":             {"500-1500"},
		"preferredTenants": {"family"},
	}

	f, err := FilterFromQuery(q)
	require.NoError(t, err)

	assert.Equal(t, ListingRent, f.Type)
	assert.Equal(t, PropertyApartment, f.PropertyType)
	assert.Equal(t, []BHK{BHK1, BHK2, RK1}, f.BHK)
	assert.Equal(t, &Range{Min: 100, Max: 900}, f.Price)
	assert.Equal(t, &Range{Min: 500, Max: 1500}, f.Area)
	assert.Equal(t, TenantsFamily, f.PreferredTenants)
}

func TestFilterFromQueryEmpty(t *testing.T) {
	f, err := FilterFromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, PropertyFilter{}, f)
}

func TestFilterFromQueryRejectsUnknownValues(t *testing.T) {
	bad := []url.Values{
		{"type": {"lease"}},
		{"apartment_type": {"castle"}},
		{"bhk": {"BHK9"}},
		{"price": {"9-1"}},
		{"price": {"0-18446744073709551615"}},
		{"preferredTenants": {"pets"}},
	}

	for _, q := range bad {
		_, err := FilterFromQuery(q)
		assert.Error(t, err, q.Encode())
	}
}

func TestClampCount(t *testing.T) {
	assert.Equal(t, DefaultPropertyCount, ClampCount(0))
	assert.Equal(t, DefaultPropertyCount, ClampCount(-3))
	assert.Equal(t, 5, ClampCount(5))
	assert.Equal(t, MaxPropertyCount, ClampCount(1000))
}

func TestUserHasSaved(t *testing.T) {
	u := User{SavedProperties: []Property{{}, {}}}
	u.SavedProperties[0].ID = 3
	u.SavedProperties[1].ID = 7

	assert.True(t, u.HasSaved(7))
	assert.False(t, u.HasSaved(4))
}

func TestURLs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, URLs([]Image{{URL: "a"}, {URL: "b"}}))
	assert.Empty(t, URLs(nil))
}
