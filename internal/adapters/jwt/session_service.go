package token_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionService проверяет токены, выданные внешним провайдером идентификации.
// Сервис объявлений токены не выпускает.
type SessionService struct {
	signingKey []byte
	issuer     string
}

func NewSessionService(signingKey, issuer string) (*SessionService, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	return &SessionService{signingKey: []byte(signingKey), issuer: issuer}, nil
}

// sessionClaims - claims провайдера. Пользователь берется из user_id, иначе из sub.
type sessionClaims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// CurrentUser проверяет подпись и срок действия токена
func (s *SessionService) CurrentUser(ctx context.Context, tokenString string) (*domain.Session, error) {
	serviceLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SessionService",
		"method":    "CurrentUser",
	})

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			serviceLogger.Info("Token has expired", nil)
		} else {
			serviceLogger.Warn("Invalid token format or signature", port.Fields{"error": err.Error()})
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	rawID := claims.UserID
	if rawID == "" {
		rawID = claims.Subject
	}
	userID, err := uuid.Parse(rawID)
	if err != nil || userID == uuid.Nil {
		serviceLogger.Warn("Token carries no valid user id", port.Fields{"user_id": rawID})
		return nil, domain.ErrUnauthenticated
	}

	serviceLogger.Debug("Token validated successfully", port.Fields{"user_id": userID.String()})
	return &domain.Session{UserID: userID, Email: claims.Email, Role: claims.Role}, nil
}
