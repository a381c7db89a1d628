package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

type AddListingImageUseCase interface {
	Execute(ctx context.Context, userID, listingID uuid.UUID, imageURL string, isPrimary bool) (*domain.ListingImage, error)
}
