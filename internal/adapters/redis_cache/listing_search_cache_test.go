package redis_cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	counters map[string]int64
	failGet  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte), counters: make(map[string]int64)}
}

func (s *memoryStore) Counter(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[key], nil
}

func (s *memoryStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]++
	return s.counters[key], nil
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return nil, s.failGet
	}
	v, ok := s.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
		}
	}
	return nil
}

type countingStorage struct {
	finds    int
	listings []domain.Listing
	err      error
	// duringFind вызывается посреди чтения, как параллельная запись
	duringFind func()
}

func (s *countingStorage) FindListings(context.Context, domain.ListingQuery) ([]domain.Listing, error) {
	s.finds++
	if s.duringFind != nil {
		s.duringFind()
	}
	return s.listings, s.err
}
func (s *countingStorage) GetListing(context.Context, uuid.UUID) (*domain.Listing, error) {
	return nil, domain.ErrListingNotFound
}
func (s *countingStorage) CreateListing(context.Context, *domain.Listing) error { return s.err }
func (s *countingStorage) UpdateListing(context.Context, *domain.Listing) error { return s.err }
func (s *countingStorage) DeleteListing(context.Context, uuid.UUID) error       { return s.err }
func (s *countingStorage) AddImage(context.Context, domain.ListingImage) error  { return s.err }

func sampleListings() []domain.Listing {
	return []domain.Listing{{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Title:        "Sunny loft",
		PropertyType: "loft",
		TotalArea:    120,
		Bedrooms:     3,
		Amenities:    domain.Flags{"balcony": true},
		CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}}
}

func TestFindListings_CachesByQuery(t *testing.T) {
	backend := &countingStorage{listings: sampleListings()}
	cached, err := newCachedListingStorage(backend, newMemoryStore(), time.Minute)
	require.NoError(t, err)

	two := 2
	q := domain.ListingQuery{PropertyTypes: []string{"loft"}, MinBedrooms: &two}

	first, err := cached.FindListings(context.Background(), q)
	require.NoError(t, err)
	second, err := cached.FindListings(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.finds)
	assert.Equal(t, first, second)
	assert.Nil(t, second[0].Infrastructure)

	_, err = cached.FindListings(context.Background(), domain.ListingQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, backend.finds)
}

func TestMutationsInvalidateSearches(t *testing.T) {
	backend := &countingStorage{listings: sampleListings()}
	cached, err := newCachedListingStorage(backend, newMemoryStore(), time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = cached.FindListings(ctx, domain.ListingQuery{})
	require.NoError(t, cached.DeleteListing(ctx, uuid.New()))
	_, _ = cached.FindListings(ctx, domain.ListingQuery{})
	assert.Equal(t, 2, backend.finds)

	require.NoError(t, cached.CreateListing(ctx, &sampleListings()[0]))
	_, _ = cached.FindListings(ctx, domain.ListingQuery{})
	assert.Equal(t, 3, backend.finds)
}

func TestFindListings_CacheFailureFallsBack(t *testing.T) {
	backend := &countingStorage{listings: sampleListings()}
	store := newMemoryStore()
	store.failGet = errors.New("connection refused")
	cached, err := newCachedListingStorage(backend, store, time.Minute)
	require.NoError(t, err)

	got, err := cached.FindListings(context.Background(), domain.ListingQuery{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFindListings_BackendErrorNotCached(t *testing.T) {
	boom := errors.New("db down")
	backend := &countingStorage{err: boom}
	store := newMemoryStore()
	cached, err := newCachedListingStorage(backend, store, time.Minute)
	require.NoError(t, err)

	_, err = cached.FindListings(context.Background(), domain.ListingQuery{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.data)
}

func TestNewCachedListingStorage_Validation(t *testing.T) {
	_, err := newCachedListingStorage(nil, newMemoryStore(), time.Minute)
	assert.Error(t, err)
	_, err = newCachedListingStorage(&countingStorage{}, newMemoryStore(), 0)
	assert.Error(t, err)
}

func TestFindListings_ConcurrentWriteDoesNotLeaveStaleEntry(t *testing.T) {
	backend := &countingStorage{listings: sampleListings()}
	store := newMemoryStore()
	cached, err := newCachedListingStorage(backend, store, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	// запись завершается, пока поиск еще читает базу
	backend.duringFind = func() {
		require.NoError(t, cached.DeleteListing(ctx, uuid.New()))
	}
	_, err = cached.FindListings(ctx, domain.ListingQuery{})
	require.NoError(t, err)
	assert.Empty(t, store.data)

	backend.duringFind = nil
	_, _ = cached.FindListings(ctx, domain.ListingQuery{})
	_, _ = cached.FindListings(ctx, domain.ListingQuery{})
	assert.Equal(t, 2, backend.finds)
	assert.Len(t, store.data, 1)
}
