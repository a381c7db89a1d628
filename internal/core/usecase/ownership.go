package usecase

import (
	"context"

	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
)

// loadOwned загружает объявление и проверяет, что им владеет userID
func loadOwned(ctx context.Context, storage port.ListingStoragePort, userID, listingID uuid.UUID) (*domain.Listing, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	listing, err := storage.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return listing, nil
}
