// File: internal/middleware/session.go
package middleware

import (
	"medical_assistant_backend/internal/common"
	"medical_assistant_backend/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileContextKey is where RequireLogin stores the signed-in profile.
const ProfileContextKey = "profile"

// ProfileSource exposes the signed-in profile.
type ProfileSource interface {
	Current() domain.UserData
}

// RequireLogin rejects requests while no profile is signed in.
func RequireLogin(profiles ProfileSource, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := profiles.Current()
		if !u.IsLoggedIn() {
			logger.Debug("Rejected request without a signed-in profile", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Log in first."))
			return
		}
		c.Set(ProfileContextKey, u)
		c.Next()
	}
}

// GetProfileFromContext returns the profile stored by RequireLogin.
func GetProfileFromContext(c *gin.Context) (domain.UserData, bool) {
	v, exists := c.Get(ProfileContextKey)
	if !exists {
		return domain.UserData{}, false
	}
	u, ok := v.(domain.UserData)
	return u, ok
}
