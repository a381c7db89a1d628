package usecase

import (
	"context"
	"fmt"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
)

// FindListingsUseCase - резолвер фильтров: часть ограничений выполняет база,
// флаги удобств и инфраструктуры проверяются в памяти.
type FindListingsUseCase struct {
	storage port.ListingStoragePort
}

func NewFindListingsUseCase(storage port.ListingStoragePort) *FindListingsUseCase {
	return &FindListingsUseCase{storage: storage}
}

func (uc *FindListingsUseCase) Execute(ctx context.Context, filters domain.FilterSet) (*domain.ListingSearchResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":      "FindListings",
		"active_filter": filters.ActiveCount(),
	})

	ucLogger.Info("Use case started", nil)

	filters = filters.Normalize()
	if err := filters.Validate(); err != nil {
		ucLogger.Warn("Invalid filters", port.Fields{"error": err.Error()})
		return nil, err
	}

	// Все, что совпало по полям базы, выбирается целиком и только потом фильтруется по флагам
	candidates, err := uc.storage.FindListings(ctx, filters.ListingQuery())
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}

	listings := candidates
	if filters.HasFlagConstraints() {
		listings = make([]domain.Listing, 0, len(candidates))
		for i := range candidates {
			if filters.MatchesFlags(&candidates[i]) {
				listings = append(listings, candidates[i])
			}
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"candidates": len(candidates),
		"found":      len(listings),
	})

	return &domain.ListingSearchResult{
		Listings: listings,
		Count:    len(listings),
		Filters:  filters,
	}, nil
}
