package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/application/services"
	"file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/interface/api/rest/response"
)

const CtxUser = "currentUser"

// Authenticate resolves the caller from the session cookie first and the
// bearer header second. The live user record is stored under CtxUser.
func Authenticate(authService ports.Auth, logger *zap.Logger, sessionCookie string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
			u, err := authService.ResolveSession(ctx, sid)
			if err != nil {
				response.Error(c, logger, "ResolveSession()", err)
				return
			}
			if u != nil {
				c.Set(CtxUser, u)
				c.Next()
				return
			}
		}

		u, err := authService.ResolveBearer(ctx, c.GetHeader("Authorization"))
		if err != nil {
			response.Error(c, logger, "ResolveBearer()", err)
			return
		}

		c.Set(CtxUser, u)
		c.Next()
	}
}

// RequireRole must be chained after Authenticate.
func RequireRole(logger *zap.Logger, roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			response.Error(c, logger, "RequireRole()", services.ErrMissingToken)
			return
		}
		if !u.Role.In(roles...) {
			response.Error(c, logger, "RequireRole()", services.ErrPermissionDenied)
			return
		}

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok && u != nil
}
