package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyhub-dev/studyhub/internal/services"
	"github.com/studyhub-dev/studyhub/internal/types"
)

type CookieConfig struct {
	Domain string
	Secure bool
}

// Handler serves both the HTML screens and the JSON API.
type Handler struct {
	auth      *services.AuthService
	projects  *services.ProjectService
	messages  *services.MessageService
	community *services.CommunityService
	cookies   CookieConfig
	ping      func(context.Context) error
}

type Options struct {
	Auth      *services.AuthService
	Projects  *services.ProjectService
	Messages  *services.MessageService
	Community *services.CommunityService
	Cookies   CookieConfig
	Ping      func(context.Context) error
}

func New(opts Options) *Handler {
	return &Handler{
		auth:      opts.Auth,
		projects:  opts.Projects,
		messages:  opts.Messages,
		community: opts.Community,
		cookies:   opts.Cookies,
		ping:      opts.Ping,
	}
}

func (h *Handler) setSessionCookie(ctx *gin.Context, token string, expiresAt time.Time) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     types.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Expires:  expiresAt,
		Secure:   h.cookies.Secure,
		HttpOnly: true,
		SameSite: h.sameSite(),
	})
}

func (h *Handler) clearSessionCookie(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     types.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   -1,
		Secure:   h.cookies.Secure,
		HttpOnly: true,
		SameSite: h.sameSite(),
	})
}

// SameSite=None is only accepted by browsers on secure cookies.
func (h *Handler) sameSite() http.SameSite {
	if h.cookies.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
