package usecase

import (
	"context"
	"fmt"
	"time"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
)

type UpdateListingUseCase struct {
	storage port.ListingStoragePort
	events  port.ListingEventsPort
}

func NewUpdateListingUseCase(storage port.ListingStoragePort, events port.ListingEventsPort) *UpdateListingUseCase {
	return &UpdateListingUseCase{storage: storage, events: events}
}

// Execute полностью заменяет атрибуты и флаги объявления. Доступно только владельцу.
func (uc *UpdateListingUseCase) Execute(ctx context.Context, userID, listingID uuid.UUID, input domain.ListingInput) (*domain.Listing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "UpdateListing",
		"user_id":    userID.String(),
		"listing_id": listingID.String(),
	})
	ucLogger.Info("Use case started", nil)

	if err := input.Validate(); err != nil {
		ucLogger.Warn("Listing input rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	listing, err := loadOwned(ctx, uc.storage, userID, listingID)
	if err != nil {
		ucLogger.Warn("Listing is not available for update", port.Fields{"error": err.Error()})
		return nil, err
	}

	listing.Apply(input)
	listing.UpdatedAt = time.Now().UTC()

	if err := uc.storage.UpdateListing(ctx, listing); err != nil {
		ucLogger.Error("Failed to update listing", err, nil)
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	publishEvent(ctx, ucLogger, uc.events, domain.NewListingEvent(domain.ListingUpdated, listing))

	ucLogger.Info("Use case finished successfully", nil)
	return listing, nil
}
