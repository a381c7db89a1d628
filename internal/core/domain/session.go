package domain

import "github.com/google/uuid"

// Session - личность пользователя, подтвержденная внешним провайдером
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   string
}
