package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/api/dto"
)

// Caller roles assigned by the identity provider
const (
	RoleRider  = "rider"
	RoleDriver = "driver"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	ctxCallerID   = "caller_id"
	ctxCallerRole = "caller_role"
)

// Identity extracts the verified caller set by the identity gateway in front
// of this service. Verification itself happens upstream; this middleware
// only requires the caller to be present and well formed.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(headerUserID))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code: "UNAUTHORIZED", Message: "Verified caller identity required",
			})
			return
		}

		role := c.GetHeader(headerUserRole)
		if role != RoleRider && role != RoleDriver {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code: "UNAUTHORIZED", Message: "Verified caller role required",
			})
			return
		}

		c.Set(ctxCallerID, id)
		c.Set(ctxCallerRole, role)
		c.Next()
	}
}

// RequireRole rejects callers whose role does not match
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxCallerRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Code: "FORBIDDEN", Message: "Access denied. Insufficient permissions.",
			})
			return
		}
		c.Next()
	}
}

// CallerID returns the verified caller id set by Identity
func CallerID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(ctxCallerID)
	callerID, _ := id.(uuid.UUID)
	return callerID
}
