package usecase

import (
	"context"
	"testing"
	"time"

	"listings-service/internal/core/domain"
	"listings-service/internal/filterquery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindListings_BedroomThresholdIsMinimum(t *testing.T) {
	storage := newMemoryStorage()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, n := range []int{1, 2, 3, 4} {
		storage.put(listingWith(n, base.Add(time.Duration(i)*time.Hour)))
	}

	res, err := NewFindListingsUseCase(storage).Execute(context.Background(), domain.FilterSet{Bedrooms: []int{2, 4}})
	require.NoError(t, err)

	var got []int
	for _, l := range res.Listings {
		got = append(got, l.Bedrooms)
	}
	// новые первыми
	assert.Equal(t, []int{4, 3, 2}, got)
	assert.Equal(t, 3, res.Count)
}

func TestFindListings_MissingFlagRecordFailsFlagConstraints(t *testing.T) {
	storage := newMemoryStorage()
	withFlags := listingWith(2, time.Now())
	withoutFlags := listingWith(2, time.Now().Add(-time.Hour))
	withoutFlags.Amenities = nil
	withoutFlags.Infrastructure = nil
	storage.put(withFlags)
	storage.put(withoutFlags)

	uc := NewFindListingsUseCase(storage)

	res, err := uc.Execute(context.Background(), domain.FilterSet{Amenities: []string{"balcony"}})
	require.NoError(t, err)
	require.Len(t, res.Listings, 1)
	assert.Equal(t, withFlags.ID, res.Listings[0].ID)
	assert.Equal(t, len(res.Listings), res.Count)

	res, err = uc.Execute(context.Background(), domain.FilterSet{Infrastructure: []string{"park_green_area", "bank"}})
	require.NoError(t, err)
	assert.Empty(t, res.Listings)
	assert.Equal(t, 0, res.Count)

	res, err = uc.Execute(context.Background(), domain.FilterSet{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
}

func TestFindListings_FilteringKeepsOrder(t *testing.T) {
	storage := newMemoryStorage()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 5; i++ {
		l := listingWith(2, base.Add(time.Duration(i)*time.Minute))
		if i%2 == 0 {
			l.Amenities = domain.Flags{"balcony": false}.Normalize(domain.FlagKindAmenities)
		} else {
			ids = append([]string{l.ID.String()}, ids...)
		}
		storage.put(l)
	}

	res, err := NewFindListingsUseCase(storage).Execute(context.Background(), domain.FilterSet{Amenities: []string{"balcony"}})
	require.NoError(t, err)

	var got []string
	for _, l := range res.Listings {
		got = append(got, l.ID.String())
	}
	assert.Equal(t, ids, got)
}

func TestFindListings_BackendErrorGivesNoPartialResult(t *testing.T) {
	storage := newMemoryStorage()
	storage.findErr = errBackend

	res, err := NewFindListingsUseCase(storage).Execute(context.Background(), domain.FilterSet{})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, errBackend)
}

func TestFindListings_RejectsUnknownFlags(t *testing.T) {
	_, err := NewFindListingsUseCase(newMemoryStorage()).Execute(context.Background(), domain.FilterSet{Amenities: []string{"helipad"}})
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestCreateThenFilter_EndToEnd(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	owner := newUserID()

	input := validInput()
	input.Bedrooms = 3
	input.TotalArea = 120
	id, err := NewCreateListingUseCase(storage, nil).Execute(ctx, owner, input)
	require.NoError(t, err)

	find := NewFindListingsUseCase(storage)

	filters, err := filterquery.ParseQuery("bedrooms=2,4&minArea=100&maxArea=150")
	require.NoError(t, err)
	res, err := find.Execute(ctx, filters)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, id, res.Listings[0].ID)

	filters, err = filterquery.ParseQuery("bedrooms=5")
	require.NoError(t, err)
	res, err = find.Execute(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
}
