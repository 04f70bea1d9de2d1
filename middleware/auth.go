package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/exhibition/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated admin ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the admin username inside Gin context.
	ContextUsernameKey = "username"

	// LoginRequiredMessage is flashed when an anonymous visitor opens an admin page.
	LoginRequiredMessage = "로그인이 필요한 페이지입니다."
	// LoginPath is where unauthenticated admin requests are sent.
	LoginPath = "/login"
)

// AuthError reports a request for a protected page without a signed-in identity.
type AuthError struct {
	Path string
}

func (e *AuthError) Error() string {
	return "authentication required for " + e.Path
}

// Authorize checks the session for an admin identity.
func Authorize(state *SessionState, path string) (uint, string, error) {
	if state == nil {
		return 0, "", &AuthError{Path: path}
	}
	id, ok := state.UserID()
	if !ok {
		return 0, "", &AuthError{Path: path}
	}
	return id, state.Username(), nil
}

// AuthRequired guards admin routes: anonymous requests are redirected to the login page with a notice.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		state := CurrentSession(ctx)
		id, name, err := Authorize(state, ctx.Request.URL.Path)
		var authErr *AuthError
		if errors.As(err, &authErr) {
			if state != nil {
				state.AddFlash(LoginRequiredMessage)
				if err := state.Save(); err != nil {
					utils.Logger.Warn("save session failed", zap.Error(err))
				}
			}
			ctx.Redirect(http.StatusFound, LoginPath)
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, id)
		ctx.Set(ContextUsernameKey, name)
		ctx.Next()
	}
}
