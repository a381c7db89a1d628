package contextkeys

import (
	"context"

	"listings-service/internal/core/domain"
)

type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

// ContextWithSession кладет в контекст сессию, проверенную auth middleware
func ContextWithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext возвращает сессию или nil для анонимного запроса
func SessionFromContext(ctx context.Context) *domain.Session {
	if session, ok := ctx.Value(sessionKey).(*domain.Session); ok {
		return session
	}
	return nil
}
