package middleware

import (
	"strings"

	"icehc_portal/internal/config"
	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stashes the claims on the
// request context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("member", claims)
		c.Next()
	}
}

// ApprovedMiddleware gates the member surface. Pending and rejected
// accounts hold a valid token but cannot reach club features.
func ApprovedMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetMemberFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if claims.Status != model.StatusApproved {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleMiddleware requires at least the given role.
func RoleMiddleware(required model.MemberRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetMemberFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if !claims.Role.AtLeast(required) {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActivityMiddleware records last-seen for authenticated requests, off the
// request path.
func ActivityMiddleware(memberRepo *repository.MemberRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		claims := util.GetMemberFromContext(c)
		if claims == nil {
			return
		}
		go memberRepo.UpdateLastSeen(claims.MemberID)
	}
}
