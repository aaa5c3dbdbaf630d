package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studyhub-dev/studyhub/internal/services"
	"github.com/studyhub-dev/studyhub/internal/utils"
)

type CreateUserRequest struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email" binding:"required"`
	Institution string `json:"institution" form:"institution"`
	Role        string `json:"role" form:"role"`
}

type LoginUserRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
}

func (r CreateUserRequest) input() services.RegisterInput {
	return services.RegisterInput{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		Institution: strings.TrimSpace(r.Institution),
		Role:        r.Role,
	}
}

func (h *Handler) CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.auth.Register(ctx.Request.Context(), body.input())

	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEmail):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrEmailTaken):
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			log.Printf("Failed to create user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	response, err := toUserResponse(user)

	if err != nil {
		log.Printf("Failed to build user response: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful! Please login.",
		"user":    response,
	})
}

func (h *Handler) LoginUser(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.auth.Login(ctx.Request.Context(), body.Email)

	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to log in: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response, err := toUserResponse(result.User)

	if err != nil {
		log.Printf("Failed to build user response: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.setSessionCookie(ctx, result.Token, result.Session.ExpiresAt)

	ctx.JSON(http.StatusOK, gin.H{
		"user":  response,
		"token": result.Token,
	})
}

func (h *Handler) Me(ctx *gin.Context) {
	current, err := utils.GetCurrentSession(ctx)

	if err != nil || !current.LoggedIn() {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	response, err := toUserResponse(current.User)

	if err != nil {
		log.Printf("Failed to build user response: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": response})
}

// LogoutUser ends the current session, if any, and clears the cookie.
func (h *Handler) LogoutUser(ctx *gin.Context) {
	if current, err := utils.GetCurrentSession(ctx); err == nil {
		if err := h.auth.Logout(ctx.Request.Context(), current.SessionID); err != nil {
			log.Printf("Failed to delete session: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	h.clearSessionCookie(ctx)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
