package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pinewood/hotel-booking-backend/internal/auth"
	"github.com/pinewood/hotel-booking-backend/internal/user"
)

// requireRole ensures the authenticated user satisfies the given role check.
// The role is looked up from the database rather than trusted from the token,
// so role changes take effect without waiting for token expiry.
// It MUST be used after auth.AuthRequired middleware.
func requireRole(userService user.Service, allowed func(user.Role) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		if !allowed(u.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}

		// Refresh the role claim so downstream handlers see the live value.
		c.Set("userRole", string(u.Role))
		c.Next()
	}
}

// RequireStaff allows staff and admin users.
func RequireStaff(userService user.Service) gin.HandlerFunc {
	return requireRole(userService, user.Role.Privileged, "forbidden: staff access required")
}

// RequireAdmin allows admin users only.
func RequireAdmin(userService user.Service) gin.HandlerFunc {
	return requireRole(userService, func(r user.Role) bool {
		return r == user.RoleAdmin
	}, "forbidden: admin access required")
}
