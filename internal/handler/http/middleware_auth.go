package http

import (
	"fmt"
	"net/http"

	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/utils"
	"github.com/lightningsoon/KeyMinder/models"
	"github.com/rs/zerolog"
)

// auth is an HTTP middleware that enforces token authentication.
//
// It extracts the bearer token from the "Authorization" header, validates it
// and its session via [service.AuthService.ParseToken] and stores the caller
// as a [models.Principal] in the request context. The request logger gains a
// user_id field.
//
// Requests without a usable token or with a closed session are rejected with
// 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, r, ErrEmptyAuthorizationHeader, "request is not authenticated")
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err), "request is not authenticated")
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			writeError(w, r, err, "token rejected")
			return
		}

		principal := models.Principal{UserID: token.UserID, SessionID: token.SessionID}
		if token.ExpiresAt != nil {
			principal.ExpiresAt = token.ExpiresAt.Time
		}
		ctx = utils.WithPrincipal(ctx, principal)

		l := logger.FromContext(ctx).GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user_id", token.UserID)
		})

		next.ServeHTTP(w, r.WithContext(l.WithContext(ctx)))
	})
}
