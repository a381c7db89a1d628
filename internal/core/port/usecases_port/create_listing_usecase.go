package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

type CreateListingUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID, input domain.ListingInput) (uuid.UUID, error)
}
