package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// memoryStorage - хранилище в памяти, повторяющее условия SQL-запроса
type memoryStorage struct {
	mu        sync.Mutex
	listings  map[uuid.UUID]*domain.Listing
	createErr error
	findErr   error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{listings: make(map[uuid.UUID]*domain.Listing)}
}

func (m *memoryStorage) put(l domain.Listing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[l.ID] = &l
}

func (m *memoryStorage) FindListings(_ context.Context, q domain.ListingQuery) ([]domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}

	var out []domain.Listing
	for _, l := range m.listings {
		if q.Search != "" {
			term := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(l.Title), term) && !strings.Contains(strings.ToLower(l.Description), term) {
				continue
			}
		}
		if len(q.PropertyTypes) > 0 && !slices.Contains(q.PropertyTypes, l.PropertyType) {
			continue
		}
		if q.MinBedrooms != nil && l.Bedrooms < *q.MinBedrooms {
			continue
		}
		if q.MinBathrooms != nil && l.Bathrooms < *q.MinBathrooms {
			continue
		}
		if q.MinArea != nil && l.TotalArea < *q.MinArea {
			continue
		}
		if q.MaxArea != nil && l.TotalArea > *q.MaxArea {
			continue
		}
		out = append(out, *l)
	}
	slices.SortFunc(out, func(a, b domain.Listing) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
	return out, nil
}

func (m *memoryStorage) GetListing(_ context.Context, id uuid.UUID) (*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	copied := *l
	copied.Images = slices.Clone(l.Images)
	return &copied, nil
}

func (m *memoryStorage) CreateListing(_ context.Context, l *domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	copied := *l
	m.listings[l.ID] = &copied
	return nil
}

func (m *memoryStorage) UpdateListing(_ context.Context, l *domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[l.ID]; !ok {
		return domain.ErrListingNotFound
	}
	copied := *l
	m.listings[l.ID] = &copied
	return nil
}

func (m *memoryStorage) DeleteListing(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(m.listings, id)
	return nil
}

func (m *memoryStorage) AddImage(_ context.Context, img domain.ListingImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[img.ListingID]
	if !ok {
		return domain.ErrListingNotFound
	}
	if img.IsPrimary {
		for i := range l.Images {
			l.Images[i].IsPrimary = false
		}
	}
	l.Images = append(l.Images, img)
	return nil
}

type recordingEvents struct {
	mu     sync.Mutex
	events []domain.ListingEvent
	err    error
}

func (r *recordingEvents) PublishListingEvent(_ context.Context, e domain.ListingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

var errBackend = errors.New("backend unavailable")

func validInput() domain.ListingInput {
	return domain.ListingInput{
		Title:           "Sunny loft",
		PropertyType:    "loft",
		OwnershipStatus: "secondary",
		TotalFloors:     9,
		FloorNumber:     4,
		TotalArea:       120,
		LivingArea:      80,
		KitchenArea:     15,
		Bedrooms:        3,
		Bathrooms:       1,
		Description:     "Close to the park",
		Amenities:       domain.Flags{"balcony": true},
		Infrastructure:  domain.Flags{"park_green_area": true},
	}
}

func listingWith(bedrooms int, created time.Time) domain.Listing {
	l := domain.NewListing(uuid.New(), validInput())
	l.Bedrooms = bedrooms
	l.CreatedAt = created
	return *l
}
