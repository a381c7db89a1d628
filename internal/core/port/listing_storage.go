package port

import (
	"context"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// ListingStoragePort - хранилище объявлений вместе с флагами и изображениями.
// Отсутствие объявления сообщается через domain.ErrListingNotFound.
type ListingStoragePort interface {
	// FindListings возвращает объявления, подходящие под ограничения базы,
	// отсортированные от новых к старым. Флаги и изображения заполнены.
	FindListings(ctx context.Context, query domain.ListingQuery) ([]domain.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error)

	// CreateListing сохраняет объявление и обе записи с флагами атомарно
	CreateListing(ctx context.Context, listing *domain.Listing) error
	UpdateListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id uuid.UUID) error

	// AddImage добавляет изображение. Новое основное изображение снимает признак со старого.
	AddImage(ctx context.Context, image domain.ListingImage) error
}
