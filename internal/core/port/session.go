package port

import (
	"context"

	"listings-service/internal/core/domain"
)

// SessionPort проверяет токен внешнего провайдера и возвращает личность пользователя.
// Неверный или просроченный токен дает domain.ErrUnauthenticated.
type SessionPort interface {
	CurrentUser(ctx context.Context, token string) (*domain.Session, error)
}
