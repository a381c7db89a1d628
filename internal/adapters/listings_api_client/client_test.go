package listings_api_client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"listings-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingsBody = `{
	"listings": [{
		"id": "5a1c2e3f-4b5d-4e6f-8a9b-0c1d2e3f4a5b",
		"user_id": "7d0f3c1e-8a9b-4c2d-9e5f-1a2b3c4d5e6f",
		"title": "Sunny loft",
		"property_type": "loft",
		"total_area": 120,
		"bedrooms": 3,
		"amenities": {"balcony": true},
		"infrastructure": null,
		"images": [{"id": "0b7e6c2a-3f41-4d0e-9a57-1f2b3c4d5e6f", "image_url": "https://img.example/1.jpg", "is_primary": true}]
	}],
	"count": 1,
	"filters": {"propertyType": ["loft"], "bedrooms": [2]}
}`

func TestFindListings_SendsQueryAndToken(t *testing.T) {
	var gotQuery, gotAuth, gotTrace string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/listings", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotTrace = r.Header.Get("X-Trace-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listingsBody))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "token-123")
	result, err := client.FindListings(context.Background(), domain.FilterSet{
		PropertyTypes: []string{"loft"},
		Bedrooms:      []int{2},
	})
	require.NoError(t, err)

	assert.Equal(t, "bedrooms=2&propertyType=loft", gotQuery)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Empty(t, gotTrace)

	require.Equal(t, 1, result.Count)
	require.Len(t, result.Listings, 1)
	listing := result.Listings[0]
	assert.Equal(t, "Sunny loft", listing.Title)
	assert.True(t, listing.Amenities.Has("balcony"))
	assert.Nil(t, listing.Infrastructure)
	require.NotNil(t, listing.PrimaryImage())
	assert.Equal(t, "https://img.example/1.jpg", listing.PrimaryImage().ImageURL)
	assert.Equal(t, []string{"loft"}, result.Filters.PropertyTypes)
}

func TestFindListingsByQuery_EmptyQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"listings": [], "count": 0, "filters": {}}`))
	}))
	defer srv.Close()

	result, err := NewClient(srv.URL, "").FindListingsByQuery(context.Background(), "?")
	require.NoError(t, err)
	assert.Empty(t, result.Listings)
	assert.True(t, result.Filters.IsEmpty())
}

func TestFindListings_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "authentication required", "sign_in_url": "/sign-in"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").FindListings(context.Background(), domain.FilterSet{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "/sign-in", statusErr.SignInURL)
}

func TestGetDictionaries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dictionaries", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"property_types": [{"system_name": "loft", "name": "Loft"}],
			"amenities": [{"system_name": "balcony", "name": "Balcony"}],
			"area_min": 0, "area_max": 300, "room_thresholds": [1, 2, 3]
		}`))
	}))
	defer srv.Close()

	dicts, err := NewClient(srv.URL, "").GetDictionaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.DictionaryItem{{SystemName: "loft", DisplayName: "Loft"}}, dicts.PropertyTypes)
	assert.Equal(t, 300.0, dicts.AreaMax)
	assert.Equal(t, []int{1, 2, 3}, dicts.RoomThresholds)
}

func TestGetListing_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").GetListing(context.Background(), [16]byte{1})
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}
