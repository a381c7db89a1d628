package usecase

import (
	"context"
	"fmt"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
)

type DeleteListingUseCase struct {
	storage port.ListingStoragePort
	events  port.ListingEventsPort
}

func NewDeleteListingUseCase(storage port.ListingStoragePort, events port.ListingEventsPort) *DeleteListingUseCase {
	return &DeleteListingUseCase{storage: storage, events: events}
}

// Execute удаляет объявление. Флаги и изображения удаляются каскадно.
func (uc *DeleteListingUseCase) Execute(ctx context.Context, userID, listingID uuid.UUID) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "DeleteListing",
		"user_id":    userID.String(),
		"listing_id": listingID.String(),
	})
	ucLogger.Info("Use case started", nil)

	listing, err := loadOwned(ctx, uc.storage, userID, listingID)
	if err != nil {
		ucLogger.Warn("Listing is not available for deletion", port.Fields{"error": err.Error()})
		return err
	}

	if err := uc.storage.DeleteListing(ctx, listingID); err != nil {
		ucLogger.Error("Failed to delete listing", err, nil)
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	publishEvent(ctx, ucLogger, uc.events, domain.NewListingEvent(domain.ListingDeleted, listing))

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
