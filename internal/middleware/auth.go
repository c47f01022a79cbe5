package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookline/booking-api/pkg/auth"
	apperrors "github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/httputil"
)

const (
	contextStaffIDKey    = "staff_id"
	contextStaffEmailKey = "staff_email"
)

// Auth validates the bearer token and stores the staff identity on the context.
func Auth(tokens auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized(nil))
			c.Abort()
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			httputil.RespondWithError(c, apperrors.Unauthorized(nil))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			c.Abort()
			return
		}

		c.Set(contextStaffIDKey, claims.StaffID)
		c.Set(contextStaffEmailKey, claims.Email)
		c.Next()
	}
}

// StaffID returns the authenticated staff member's ID, or uuid.Nil outside an
// authenticated route.
func StaffID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(contextStaffIDKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
