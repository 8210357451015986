package auth

import (
	"errors"
	"net/http"

	"admin-gateway/internal/credentials"

	"github.com/gin-gonic/gin"
)

// RequireSession verifies the caller's session token and injects identity
// into the request context. It does not look at the tenant selection. A
// token that is expired, revoked or unparseable is dropped from the store.
func RequireSession(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := credentials.FromGin(c)
		token := store.Token()
		if token == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "missing authentication token"})
			return
		}

		claims, err := s.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ErrSessionExpired):
				store.ClearToken()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "session expired"})
			case errors.Is(err, ErrSessionRevoked), errors.Is(err, ErrInvalidSession):
				store.ClearToken()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid session"})
			default:
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "session check failed"})
			}
			return
		}

		ctx := WithIdentity(c.Request.Context(), claims.Username, claims.Role, claims.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
