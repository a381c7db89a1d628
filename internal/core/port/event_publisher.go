package port

import (
	"context"

	"listings-service/internal/core/domain"
)

// ListingEventsPort публикует события об изменении объявлений
type ListingEventsPort interface {
	PublishListingEvent(ctx context.Context, event domain.ListingEvent) error
}
