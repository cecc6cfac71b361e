package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qiume/talkwall/config"
	"github.com/qiume/talkwall/models"
	"github.com/qiume/talkwall/utils"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "session_id"

// ContextIdentityKey is the key used to store the authenticated identity
// in the Gin context.
const ContextIdentityKey = "identity"

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	models.AuthedUser
	IsAdmin bool
}

// AuthRequired resolves the session cookie to an identity. A missing,
// unknown or expired session uniformly yields 401; the admin flag is
// derived from the configured uid allow-list.
func AuthRequired(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(SessionCookie)
		if err != nil || token == "" {
			utils.Error(ctx, http.StatusUnauthorized, "未授权")
			ctx.Abort()
			return
		}

		user, err := models.ResolveSession(db, token)
		if err != nil {
			if errors.Is(err, models.ErrSessionInvalid) {
				utils.Error(ctx, http.StatusUnauthorized, "未授权")
			} else {
				utils.Sugar.Errorf("session resolve failed: %v", err)
				utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
			}
			ctx.Abort()
			return
		}

		ctx.Set(ContextIdentityKey, Identity{
			AuthedUser: *user,
			IsAdmin:    cfg.IsAdmin(user.UID),
		})
		ctx.Next()
	}
}

// AdminRequired rejects authenticated callers whose uid is not on the
// admin allow-list. It must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := CurrentIdentity(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, "未授权")
			ctx.Abort()
			return
		}
		if !identity.IsAdmin {
			utils.Error(ctx, http.StatusForbidden, "禁止访问")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthRequired.
func CurrentIdentity(ctx *gin.Context) (Identity, bool) {
	value, exists := ctx.Get(ContextIdentityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}
