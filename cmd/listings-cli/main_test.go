package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"listings-service/internal/core/domain"
	"listings-service/internal/filterstate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"loft", "house"}, splitCSV(" loft, house,,loft "))
	assert.Nil(t, splitCSV(""))
}

func TestApplyOptions_BuildsFilterSet(t *testing.T) {
	c := filterstate.New(filterstate.NavigatorFunc(func(context.Context, string) error { return nil }), filterstate.WithDebounce(0))
	defer c.Close()

	err := applyOptions(c, options{
		search:        "loft",
		propertyTypes: "apartment,loft",
		bedrooms:      "2,4",
		minArea:       100,
		maxArea:       domain.DefaultMaxArea,
		amenities:     "balcony",
	})
	require.NoError(t, err)

	assert.Equal(t, "amenities=balcony&bedrooms=2%2C4&minArea=100&propertyType=apartment%2Cloft&search=loft", c.QueryString())
	assert.Equal(t, 5, c.ActiveCount())
}

func TestApplyOptions_RejectsBadInput(t *testing.T) {
	c := filterstate.New(filterstate.NavigatorFunc(func(context.Context, string) error { return nil }), filterstate.WithDebounce(0))
	defer c.Close()

	assert.ErrorIs(t, applyOptions(c, options{bedrooms: "two", maxArea: domain.DefaultMaxArea}), domain.ErrInvalidFilter)
}

func TestRun_PrintsTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bedrooms=5", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"listings": [{
			"id": "5a1c2e3f-4b5d-4e6f-8a9b-0c1d2e3f4a5b",
			"user_id": "7d0f3c1e-8a9b-4c2d-9e5f-1a2b3c4d5e6f",
			"title": "Big house", "property_type": "house",
			"total_area": 250.5, "bedrooms": 5, "bathrooms": 2,
			"created_at": "2024-05-01T10:00:00Z"
		}], "count": 1, "filters": {"bedrooms": [5]}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), options{
		baseURL:  srv.URL,
		bedrooms: "5",
		minArea:  domain.DefaultMinArea,
		maxArea:  domain.DefaultMaxArea,
	}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "query: ?bedrooms=5 (1 active filters)")
	assert.Contains(t, out.String(), "Big house")
	assert.Contains(t, out.String(), "250.5")
	assert.Contains(t, out.String(), "1 listing(s)")
}
