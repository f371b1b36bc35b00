package middleware

import (
	"context"
	"errors"
	"net/http"

	"moodly/internal/common"
	"moodly/internal/common/security"
	"moodly/internal/domain/model"
	"moodly/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const UserCtxKey contextKey = "user"

// Authenticator guards protected routes. The order is fixed: extract the
// bearer token, verify it, resolve the encoded id to a live user row, then
// attach the public projection to the request context. A structurally valid
// token for a user that no longer exists is rejected at the resolve step.
func Authenticator(userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context()) // Extracts token from Authorization header

			if err != nil {
				if errors.Is(err, jwtauth.ErrNoTokenFound) {
					common.RespondWithError(w, http.StatusUnauthorized, "not authorized (no token)")
				} else {
					common.RespondWithError(w, http.StatusUnauthorized, "not authorized (token failed)")
				}
				return
			}
			if token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "not authorized (token failed)")
				return
			}

			userID, err := security.GetUserIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "not authorized (token failed)")
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					common.RespondWithError(w, http.StatusUnauthorized, "user not found")
					return
				}
				common.RespondWithAppError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserCtxKey, user.Public())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the authenticated user attached by Authenticator.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*model.User)
	return user, ok
}
