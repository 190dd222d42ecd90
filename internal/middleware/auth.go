package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextClaims   = "claims"
)

// Authenticator validates a bearer token. *auth.Service implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a Bearer token.")
			return
		}

		claims, err := authn.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenRevoked):
				httperr.Unauthorized(c, "session_revoked", "Session has been logged out.")
			case errors.Is(err, auth.ErrInvalidToken):
				httperr.Unauthorized(c, "invalid_token", "Invalid or expired token.")
			default:
				slog.ErrorContext(c.Request.Context(), "session check failed", "err", err)
				httperr.Unavailable(c, "session_store_unavailable", "Could not verify session, try again.")
			}
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "Invalid token payload.")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Your role cannot access this resource.")
	}
}

func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

func CurrentRole(c *gin.Context) auth.Role {
	if v, ok := c.Get(ContextUserRole); ok {
		if role, ok := v.(auth.Role); ok {
			return role
		}
	}
	return ""
}

func CurrentClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ContextClaims); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
