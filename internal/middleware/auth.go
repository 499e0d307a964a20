package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/internal/auth"
	"github.com/taskboard-dev/taskboard/internal/types"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthMiddleware resolves the caller's identity from the bearer token alone;
// no user lookup happens here. Downstream handlers authorize against the
// store with the resolved id.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := auth.VerifyJWT(parts[1])

		if err != nil {
			if errors.Is(err, auth.ErrMissingSecret) {
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server misconfigured"})
				return
			}

			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    claims.ID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		ctx.Next()
	}
}
