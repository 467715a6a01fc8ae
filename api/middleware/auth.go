package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/davidepagano/storeops-backend/api/responses"
	pkgerrors "github.com/davidepagano/storeops-backend/pkg/errors"
	"github.com/davidepagano/storeops-backend/pkg/identity"
	"github.com/davidepagano/storeops-backend/pkg/logger"
)

// Auth resolves the bearer token against the identity service and seeds
// the request context with the caller. Any failure to establish identity,
// including the identity service being unreachable, surfaces as 401.
func Auth(checker identity.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			user, err := checker.WhoAmI(r.Context(), token)
			if err != nil {
				if errors.Is(err, identity.ErrUnauthenticated) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "identity check failed"))
				return
			}

			ctx := WithUserID(r.Context(), user.ID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
