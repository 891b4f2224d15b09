package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/logger"
)

type contextKey string

const identityKey contextKey = "acting-identity"

const (
	actingUserHeader = "X-Acting-User-ID"
	actingRoleHeader = "X-Acting-User-Role"
)

// ChannelAuth authenticates the calling channel with basic auth and resolves
// the acting user from the forwarded headers. The upstream gateway owns
// authentication of the end user; this layer only trusts its assertion after
// the channel credentials check out.
func ChannelAuth(channelID, channelKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if channelID == "" || channelKey == "" {
				logger.Error("channel auth middleware missing server configuration", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			id, key, ok := r.BasicAuth()
			if !ok || !secureEqual(id, channelID) || !secureEqual(key, channelKey) {
				logger.Info("channel auth middleware unauthorized request", logger.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"credentials": "invalid_or_missing",
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, ok := identityFromHeaders(r)
			if !ok {
				logger.Info("channel auth middleware missing acting user", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "acting user is missing or invalid", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the acting identity set by ChannelAuth. The zero
// identity is returned for requests that bypassed the middleware.
func IdentityFrom(ctx context.Context) domain.Identity {
	identity, _ := ctx.Value(identityKey).(domain.Identity)
	return identity
}

func identityFromHeaders(r *http.Request) (domain.Identity, bool) {
	rawID := strings.TrimSpace(r.Header.Get(actingUserHeader))
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID <= 0 {
		return domain.Identity{}, false
	}

	role := strings.ToUpper(strings.TrimSpace(r.Header.Get(actingRoleHeader)))
	return domain.Identity{
		UserID: userID,
		Admin:  role == "ADMIN",
	}, true
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
