// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zaukho/zaukho-backend/internal/authz"
	"github.com/zaukho/zaukho-backend/internal/models"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

const (
	principalKey = "principal"
	authErrorKey = "auth_error"
)

// Authenticate builds the request principal exactly once from the bearer
// token and stores it in the context. It never aborts; downstream gates decide
// what an anonymous or failed principal means for their route.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := authz.Anonymous

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.Set(authErrorKey, "malformed authorization header")
			} else if claims, err := utils.ValidateJWT(parts[1]); err != nil {
				c.Set(authErrorKey, "invalid or expired token")
			} else if userID, err := uuid.Parse(claims.UserID); err == nil {
				principal = authz.Principal{
					UserID:   userID,
					Username: claims.Username,
					Role:     authz.RoleFromUserType(models.UserType(claims.UserType)),
				}
			}
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// AuthRequired rejects requests that did not resolve to an authenticated
// principal.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetPrincipal(c).Role == authz.RoleAnonymous {
			utils.UnauthorizedResponse(c, authFailureMessage(c))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Authorize consults the static policy table before the handler runs.
func Authorize(resource authz.Resource, op authz.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if authz.Allow(resource, op, principal.Role) {
			c.Next()
			return
		}

		if principal.Role == authz.RoleAnonymous {
			utils.UnauthorizedResponse(c, authFailureMessage(c))
		} else {
			utils.ForbiddenResponse(c, "")
		}
		c.Abort()
	}
}

// GetPrincipal returns the immutable principal attached to the request.
func GetPrincipal(c *gin.Context) authz.Principal {
	if v, exists := c.Get(principalKey); exists {
		if p, ok := v.(authz.Principal); ok {
			return p
		}
	}
	return authz.Anonymous
}

func authFailureMessage(c *gin.Context) string {
	if v, exists := c.Get(authErrorKey); exists {
		if msg, ok := v.(string); ok {
			return msg
		}
	}
	return ""
}
