package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/pkg/auth"
	"github.com/Asadaligondal/Identity-Compass/pkg/common"
)

// requestsPerMinutePerIP bounds unauthenticated traffic per address.
const requestsPerMinutePerIP = 100

// Authenticator validates bearer tokens and stamps the user id onto
// the request context. In development mode requests may instead carry
// an X-User-ID header, which keeps local testing tokenless.
type Authenticator struct {
	validator *auth.JWTValidator
	ipLimiter *auth.IPRateLimiter
	devMode   bool
	logger    *zap.Logger
}

// NewAuthenticator creates the middleware. validator may be nil only
// in development mode.
func NewAuthenticator(validator *auth.JWTValidator, devMode bool, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		validator: validator,
		ipLimiter: auth.NewIPRateLimiter(requestsPerMinutePerIP),
		devMode:   devMode,
		logger:    logger,
	}
}

// Handler wraps next with authentication and IP rate limiting.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, _ := a.ipLimiter.Allow(r.Context(), clientIP(r))
		if !allowed {
			common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "rate limit exceeded")
			return
		}

		userID, err := a.resolveUser(r)
		if err != nil {
			a.logger.Debug("request rejected",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}

		ctx := common.WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) resolveUser(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header != "" && a.validator != nil {
		claims, err := a.validator.ValidateToken(header)
		if err != nil {
			return "", err
		}
		return claims.UserID, nil
	}
	if a.devMode {
		if userID := r.Header.Get("X-User-ID"); userID != "" {
			return userID, nil
		}
	}
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	return "", errors.New("authentication not configured")
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
