package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetListingUseCase interface {
	Execute(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
}
