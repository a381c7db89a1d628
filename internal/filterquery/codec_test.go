package filterquery

import (
	"net/url"
	"testing"

	"listings-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		filters domain.FilterSet
		want    string
	}{
		{
			name:    "empty set gives empty query",
			filters: domain.FilterSet{},
			want:    "",
		},
		{
			name:    "default area bounds are omitted",
			filters: domain.FilterSet{MinArea: ptr(0), MaxArea: ptr(300)},
			want:    "",
		},
		{
			name:    "non default area bounds are emitted",
			filters: domain.FilterSet{MinArea: ptr(100), MaxArea: ptr(150.5)},
			want:    "maxArea=150.5&minArea=100",
		},
		{
			name: "multi selects are comma joined and sorted",
			filters: domain.FilterSet{
				PropertyTypes: []string{"loft", "apartment"},
				Bedrooms:      []int{4, 2},
				Amenities:     []string{"patio", "balcony", "patio"},
			},
			want: "amenities=balcony%2Cpatio&bedrooms=2%2C4&propertyType=apartment%2Cloft",
		},
		{
			name:    "search term is escaped",
			filters: domain.FilterSet{Search: "sunny loft"},
			want:    "search=sunny+loft",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryString(tt.filters))
		})
	}
}

func TestParse(t *testing.T) {
	f, err := ParseQuery("search=loft&propertyType=apartment,,loft,apartment&bedrooms=2,4&minArea=100&maxArea=150&amenities=balcony&unknown=1")
	require.NoError(t, err)

	assert.Equal(t, "loft", f.Search)
	assert.Equal(t, []string{"apartment", "loft"}, f.PropertyTypes)
	assert.Equal(t, []int{2, 4}, f.Bedrooms)
	assert.Nil(t, f.Bathrooms)
	require.NotNil(t, f.MinArea)
	assert.Equal(t, 100.0, *f.MinArea)
	require.NotNil(t, f.MaxArea)
	assert.Equal(t, 150.0, *f.MaxArea)
	assert.Equal(t, []string{"balcony"}, f.Amenities)
	assert.Nil(t, f.Infrastructure)
}

func TestParse_RepeatedParametersAreMerged(t *testing.T) {
	repeated, err := ParseQuery("bedrooms=2&bedrooms=4&propertyType=loft&propertyType=house,apartment&amenities=balcony&amenities=")
	require.NoError(t, err)
	joined, err := ParseQuery("bedrooms=2,4&propertyType=apartment,house,loft&amenities=balcony")
	require.NoError(t, err)

	assert.Equal(t, joined, repeated)
	assert.Equal(t, []int{2, 4}, repeated.Bedrooms)
	assert.Equal(t, []string{"apartment", "house", "loft"}, repeated.PropertyTypes)
}

func TestParse_EmptyValuesAreUnconstrained(t *testing.T) {
	f, err := Parse(url.Values{"propertyType": {""}, "bedrooms": {","}, "search": {"  "}})
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed bedrooms":  "bedrooms=two",
		"fractional bedrooms": "bathrooms=1.5",
		"malformed area":      "minArea=abc",
		"infinite area":       "maxArea=Inf",
		"unknown amenity":     "amenities=helipad",
		"unknown infra":       "infrastructure=airport",
		"inverted area range": "minArea=200&maxArea=100",
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuery(query)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidFilter)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	sets := []domain.FilterSet{
		{},
		{Search: "garden view"},
		{PropertyTypes: []string{"house"}},
		{Bedrooms: []int{1, 3}, Bathrooms: []int{2}},
		{MinArea: ptr(40)},
		{MaxArea: ptr(120.25)},
		{Amenities: []string{"tv_set", "bar"}, Infrastructure: []string{"park_green_area"}},
		{
			Search:         "loft",
			PropertyTypes:  []string{"loft", "penthouse"},
			Bedrooms:       []int{5},
			MinArea:        ptr(10),
			MaxArea:        ptr(299),
			Infrastructure: []string{"schools", "bank"},
		},
	}

	for _, f := range sets {
		parsed, err := ParseQuery(QueryString(f))
		require.NoError(t, err)
		assert.Equal(t, f.Normalize(), parsed)
	}
}
