package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
)

type AddListingImageUseCase struct {
	storage port.ListingStoragePort
}

func NewAddListingImageUseCase(storage port.ListingStoragePort) *AddListingImageUseCase {
	return &AddListingImageUseCase{storage: storage}
}

func (uc *AddListingImageUseCase) Execute(ctx context.Context, userID, listingID uuid.UUID, imageURL string, isPrimary bool) (*domain.ListingImage, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "AddListingImage",
		"listing_id": listingID.String(),
		"is_primary": isPrimary,
	})
	ucLogger.Info("Use case started", nil)

	imageURL = strings.TrimSpace(imageURL)
	if u, err := url.Parse(imageURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &domain.ValidationError{Field: "image_url", Message: "must be an absolute http(s) URL"}
	}

	if _, err := loadOwned(ctx, uc.storage, userID, listingID); err != nil {
		ucLogger.Warn("Listing is not available for image upload", port.Fields{"error": err.Error()})
		return nil, err
	}

	image := domain.ListingImage{
		ID:        uuid.New(),
		ListingID: listingID,
		ImageURL:  imageURL,
		IsPrimary: isPrimary,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.storage.AddImage(ctx, image); err != nil {
		ucLogger.Error("Failed to save image", err, nil)
		return nil, fmt.Errorf("failed to add image: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"image_id": image.ID.String()})
	return &image, nil
}
