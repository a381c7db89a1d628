package usecase

import (
	"context"
	"testing"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserID() uuid.UUID { return uuid.New() }

func TestCreateListing(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	events := &recordingEvents{}
	owner := newUserID()

	id, err := NewCreateListingUseCase(storage, events).Execute(ctx, owner, validInput())
	require.NoError(t, err)

	saved, err := storage.GetListing(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, owner, saved.UserID)
	assert.Len(t, saved.Amenities, len(domain.AmenityDefinitions))
	assert.Len(t, saved.Infrastructure, len(domain.InfrastructureDefinitions))
	assert.True(t, saved.Amenities.Has("balcony"))
	assert.False(t, saved.Amenities.Has("bar"))

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.ListingCreated, events.events[0].Type)
	assert.Equal(t, id, events.events[0].ListingID)
}

func TestCreateListing_RequiresIdentity(t *testing.T) {
	_, err := NewCreateListingUseCase(newMemoryStorage(), nil).Execute(context.Background(), uuid.Nil, validInput())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestCreateListing_Validation(t *testing.T) {
	cases := map[string]func(in *domain.ListingInput){
		"missing title":        func(in *domain.ListingInput) { in.Title = "  " },
		"unknown type":         func(in *domain.ListingInput) { in.PropertyType = "castle" },
		"unknown ownership":    func(in *domain.ListingInput) { in.OwnershipStatus = "rented" },
		"negative bedrooms":    func(in *domain.ListingInput) { in.Bedrooms = -1 },
		"zero area":            func(in *domain.ListingInput) { in.TotalArea = 0 },
		"living above total":   func(in *domain.ListingInput) { in.LivingArea = 500 },
		"floor above building": func(in *domain.ListingInput) { in.FloorNumber = 12 },
		"unknown amenity":      func(in *domain.ListingInput) { in.Amenities = domain.Flags{"helipad": true} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			storage := newMemoryStorage()
			in := validInput()
			mutate(&in)

			_, err := NewCreateListingUseCase(storage, nil).Execute(context.Background(), newUserID(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, storage.listings)
		})
	}
}

func TestCreateListing_StorageFailureLeavesNothing(t *testing.T) {
	storage := newMemoryStorage()
	storage.createErr = errBackend
	events := &recordingEvents{}

	_, err := NewCreateListingUseCase(storage, events).Execute(context.Background(), newUserID(), validInput())
	assert.ErrorIs(t, err, errBackend)
	assert.Empty(t, storage.listings)
	assert.Empty(t, events.events)
}

func TestCreateListing_PublishFailureIsNotFatal(t *testing.T) {
	storage := newMemoryStorage()
	events := &recordingEvents{err: errBackend}

	id, err := NewCreateListingUseCase(storage, events).Execute(context.Background(), newUserID(), validInput())
	require.NoError(t, err)
	_, err = storage.GetListing(context.Background(), id)
	assert.NoError(t, err)
}

func TestUpdateListing(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	events := &recordingEvents{}
	owner := newUserID()
	id, err := NewCreateListingUseCase(storage, nil).Execute(ctx, owner, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Title = "Renovated loft"
	in.Amenities = domain.Flags{"bar": true}

	uc := NewUpdateListingUseCase(storage, events)

	_, err = uc.Execute(ctx, newUserID(), id, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Execute(ctx, owner, uuid.New(), in)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	updated, err := uc.Execute(ctx, owner, id, in)
	require.NoError(t, err)
	assert.Equal(t, "Renovated loft", updated.Title)

	saved, err := storage.GetListing(ctx, id)
	require.NoError(t, err)
	assert.True(t, saved.Amenities.Has("bar"))
	assert.False(t, saved.Amenities.Has("balcony"))
	require.Len(t, events.events, 1)
	assert.Equal(t, domain.ListingUpdated, events.events[0].Type)
}

func TestDeleteListing(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	events := &recordingEvents{}
	owner := newUserID()
	id, err := NewCreateListingUseCase(storage, nil).Execute(ctx, owner, validInput())
	require.NoError(t, err)

	uc := NewDeleteListingUseCase(storage, events)

	assert.ErrorIs(t, uc.Execute(ctx, newUserID(), id), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Execute(ctx, uuid.Nil, id), domain.ErrUnauthenticated)

	require.NoError(t, uc.Execute(ctx, owner, id))

	_, err = NewGetListingUseCase(storage).Execute(ctx, id)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	assert.ErrorIs(t, uc.Execute(ctx, owner, id), domain.ErrListingNotFound)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.ListingDeleted, events.events[0].Type)
}

func TestAddListingImage_NewPrimaryDemotesOld(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	owner := newUserID()
	id, err := NewCreateListingUseCase(storage, nil).Execute(ctx, owner, validInput())
	require.NoError(t, err)

	uc := NewAddListingImageUseCase(storage)

	first, err := uc.Execute(ctx, owner, id, "https://cdn.example.com/a.jpg", true)
	require.NoError(t, err)
	second, err := uc.Execute(ctx, owner, id, "https://cdn.example.com/b.jpg", true)
	require.NoError(t, err)

	saved, err := storage.GetListing(ctx, id)
	require.NoError(t, err)
	require.Len(t, saved.Images, 2)
	require.NotNil(t, saved.PrimaryImage())
	assert.Equal(t, second.ID, saved.PrimaryImage().ID)
	assert.NotEqual(t, first.ID, saved.PrimaryImage().ID)

	_, err = uc.Execute(ctx, owner, id, "not a url", false)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(ctx, newUserID(), id, "https://cdn.example.com/c.jpg", false)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetDictionaries(t *testing.T) {
	d, err := NewGetDictionariesUseCase().Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.PropertyTypes, 5)
	assert.Len(t, d.OwnershipStatuses, 2)
	assert.Len(t, d.Amenities, 15)
	assert.Len(t, d.Infrastructure, 12)
	assert.Equal(t, 0.0, d.AreaMin)
	assert.Equal(t, 300.0, d.AreaMax)
}
