package usecase

import (
	"context"
	"fmt"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
)

type CreateListingUseCase struct {
	storage port.ListingStoragePort
	events  port.ListingEventsPort
}

func NewCreateListingUseCase(storage port.ListingStoragePort, events port.ListingEventsPort) *CreateListingUseCase {
	return &CreateListingUseCase{storage: storage, events: events}
}

// Execute сохраняет объявление вместе с записями удобств и инфраструктуры
func (uc *CreateListingUseCase) Execute(ctx context.Context, userID uuid.UUID, input domain.ListingInput) (uuid.UUID, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CreateListing",
		"user_id":  userID.String(),
	})
	ucLogger.Info("Use case started", nil)

	if userID == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	if err := input.Validate(); err != nil {
		ucLogger.Warn("Listing input rejected", port.Fields{"error": err.Error()})
		return uuid.Nil, err
	}

	listing := domain.NewListing(userID, input)
	if err := uc.storage.CreateListing(ctx, listing); err != nil {
		ucLogger.Error("Failed to save listing", err, nil)
		return uuid.Nil, fmt.Errorf("failed to create listing: %w", err)
	}

	publishEvent(ctx, ucLogger, uc.events, domain.NewListingEvent(domain.ListingCreated, listing))

	ucLogger.Info("Use case finished successfully", port.Fields{"listing_id": listing.ID.String()})
	return listing.ID, nil
}

// publishEvent отправляет событие. Ошибка публикации не отменяет уже сохраненное изменение.
func publishEvent(ctx context.Context, logger port.LoggerPort, events port.ListingEventsPort, event domain.ListingEvent) {
	if events == nil {
		return
	}
	if err := events.PublishListingEvent(ctx, event); err != nil {
		logger.Error("Failed to publish listing event", err, port.Fields{
			"event_type": string(event.Type),
			"listing_id": event.ListingID.String(),
		})
	}
}
