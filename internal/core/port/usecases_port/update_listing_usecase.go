package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

type UpdateListingUseCase interface {
	Execute(ctx context.Context, userID, listingID uuid.UUID, input domain.ListingInput) (*domain.Listing, error)
}
