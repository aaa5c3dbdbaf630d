package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studyhub-dev/studyhub/internal/services"
	"github.com/studyhub-dev/studyhub/internal/types"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*services.CurrentSession, error)
}

// SessionMiddleware resolves the session token, if any, and stores the
// session in the request context. It never rejects a request by itself.
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := tokenFromRequest(ctx)

		if token == "" {
			ctx.Next()
			return
		}

		current, err := resolver.Resolve(ctx.Request.Context(), token)

		if err != nil {
			if !errors.Is(err, services.ErrInvalidSession) {
				log.Printf("Failed to resolve session: %v", err)
				ctx.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			ctx.Next()
			return
		}

		ctx.Set(types.ContextSessionKey, current)
		ctx.Next()
	}
}

// AuthMiddleware guards JSON endpoints: the session must resolve to an existing user.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !currentSession(ctx).LoggedIn() {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		ctx.Next()
	}
}

// ScreenMiddleware guards HTML screens: any active session may pass, even one
// whose user row is gone. Others are sent to the login screen.
func ScreenMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if currentSession(ctx) == nil {
			ctx.Redirect(http.StatusSeeOther, "/login")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func currentSession(ctx *gin.Context) *services.CurrentSession {
	value, exists := ctx.Get(types.ContextSessionKey)

	if !exists {
		return nil
	}

	current, _ := value.(*services.CurrentSession)
	return current
}

func tokenFromRequest(ctx *gin.Context) string {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := ctx.Cookie(types.SessionCookieName); err == nil {
		return cookie
	}

	return ""
}
