package middleware

import (
	"context"
	"net/http"
	"strings"

	"moodjournal_api/utils"
)

type key int

const UserContextKey key = 0

// JWTMiddleware admits requests carrying a valid access token and stores its
// claims in the request context.
func JWTMiddleware(tokens *utils.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.WriteError(w, http.StatusUnauthorized, "Authorization header missing")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				utils.WriteError(w, http.StatusUnauthorized, "Bearer token missing")
				return
			}

			claims, err := tokens.ParseAccessToken(tokenString)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*utils.AccessClaims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.AccessClaims)
	return claims, ok && claims.UserID != ""
}
