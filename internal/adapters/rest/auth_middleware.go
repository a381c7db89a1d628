package rest

import (
	"net/http"
	"strings"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
)

const accessTokenCookie = "access_token"

type AuthMiddleware struct {
	sessions  port.SessionPort
	signInURL string
}

func NewAuthMiddleware(sessions port.SessionPort, signInURL string) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, signInURL: signInURL}
}

// Authenticate пропускает дальше только запросы с действующим токеном.
// Браузер перенаправляется на страницу входа, API-клиент получает 401.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context())

		token := extractToken(r)
		if token == "" {
			am.reject(w, r, "authorization token required")
			return
		}

		session, err := am.sessions.CurrentUser(r.Context(), token)
		if err != nil {
			logger.Warn("Token rejected", port.Fields{"error": err.Error()})
			am.reject(w, r, domain.ErrUnauthenticated.Error())
			return
		}

		ctx := contextkeys.ContextWithSession(r.Context(), session)
		ctx = contextkeys.ContextWithLogger(ctx, logger.WithFields(port.Fields{
			"user_id": session.UserID.String(),
		}))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (am *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, message string) {
	if am.signInURL != "" && strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, am.signInURL, http.StatusSeeOther)
		return
	}
	RespondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: message, SignInURL: am.signInURL})
}

// extractToken берет токен из заголовка Authorization, иначе из cookie
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
