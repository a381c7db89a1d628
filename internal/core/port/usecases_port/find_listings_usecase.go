package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"
)

type FindListingsUseCase interface {
	Execute(ctx context.Context, filters domain.FilterSet) (*domain.ListingSearchResult, error)
}
