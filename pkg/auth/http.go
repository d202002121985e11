package auth

import (
	"errors"
	"net/http"
	"strings"
)

var (
	errMissingAuthorization = errors.New("missing authorization header")
	errBadAuthorization     = errors.New("invalid authorization format")
)

// UnauthorizedFunc writes the response for a rejected request.
type UnauthorizedFunc func(w http.ResponseWriter, r *http.Request, err error)

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(jwtService *JWTService, onError UnauthorizedFunc) func(http.Handler) http.Handler {
	return middleware(jwtService, onError, false)
}

// OptionalAuth lets anonymous requests through but still rejects a bearer
// token that fails validation.
func OptionalAuth(jwtService *JWTService, onError UnauthorizedFunc) func(http.Handler) http.Handler {
	return middleware(jwtService, onError, true)
}

func middleware(jwtService *JWTService, onError UnauthorizedFunc, allowAnonymous bool) func(http.Handler) http.Handler {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				if allowAnonymous {
					next.ServeHTTP(w, r)
					return
				}
				onError(w, r, errMissingAuthorization)
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				onError(w, r, errBadAuthorization)
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				onError(w, r, ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
