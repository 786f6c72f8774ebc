package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/pkg"
)

const (
	contextUserKey   = "auth_user"
	contextClaimsKey = "auth_claims"
	contextTokenKey  = "auth_token"
	tokenCookieName  = "token"
)

// Middleware returns a gin handler that authenticates the request via the
// Authorization header (Bearer scheme) or the token cookie, validates the
// session, and stores the resolved user in the request context.
func Middleware(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			pkg.Error(c, domain.ErrNoLogin)
			c.Abort()
			return
		}

		user, claims, err := svc.Validate(c.Request.Context(), token, c.Request.UserAgent(), c.ClientIP())
		if err != nil {
			pkg.Error(c, err)
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextClaimsKey, claims)
		c.Set(contextTokenKey, token)
		c.Next()
	}
}

// RequireRole returns a gin handler that rejects authenticated users whose
// role is not in the allowed set. It must run after Middleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			pkg.Error(c, domain.ErrNoLogin)
			c.Abort()
			return
		}
		if !allowed[user.Role] {
			pkg.Error(c, domain.ErrNoPermission)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by Middleware, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(contextUserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

// CurrentClaims returns the validated token claims, or nil.
func CurrentClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(contextClaimsKey); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// CurrentToken returns the raw token string the request authenticated with.
func CurrentToken(c *gin.Context) string {
	if v, ok := c.Get(contextTokenKey); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}

// CurrentUserID returns the authenticated user's id, or nil when anonymous.
// Stores take it as the audit stamp for create/update/delete operations.
func CurrentUserID(c *gin.Context) *uint {
	if user := CurrentUser(c); user != nil {
		id := user.ID
		return &id
	}
	return nil
}

// extractToken pulls the bearer token from the Authorization header, falling
// back to the token cookie for browser clients.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie(tokenCookieName); err == nil {
		return cookie
	}
	return ""
}
