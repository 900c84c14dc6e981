package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/business-management-api/internal/access"
	"github.com/yukikurage/business-management-api/internal/auth"
	"github.com/yukikurage/business-management-api/internal/constants"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
)

// RequireAuth verifies the bearer token and loads the active user behind it.
func RequireAuth(gate *access.Gate, users access.UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractToken(c.GetHeader(constants.HeaderAuthorization))
		if err != nil {
			apierrors.Respond(c, apierrors.NewUnauthenticated(err.Error(), nil))
			c.Abort()
			return
		}

		userID, err := gate.Authenticate(token)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		user, err := access.CurrentUser(c.Request.Context(), users, userID)
		if err != nil {
			if errors.Is(err, apierrors.ErrNotFound) {
				err = apierrors.NewUnauthenticated("User no longer exists", err)
			}
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		// Store the user in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint64)
	return id, ok
}

// CurrentUser returns the user loaded by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
