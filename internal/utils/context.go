package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"github.com/studyhub-dev/studyhub/internal/services"
	"github.com/studyhub-dev/studyhub/internal/types"
)

var (
	ErrNotAuthenticated = errors.New("User not authenticated")
	ErrInvalidProjectID = errors.New("Invalid Project ID")
)

// GetCurrentSession returns the session resolved by the session middleware.
// The session's User may be nil.
func GetCurrentSession(ctx *gin.Context) (*services.CurrentSession, error) {
	value, exists := ctx.Get(types.ContextSessionKey)

	if !exists {
		return nil, ErrNotAuthenticated
	}

	current, ok := value.(*services.CurrentSession)

	if !ok || current == nil {
		return nil, errors.New("Invalid session type in context")
	}

	return current, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	current, err := GetCurrentSession(ctx)

	if err != nil {
		return 0, err
	}

	return current.UserID, nil
}

func GetProjectID(ctx *gin.Context) (uint, error) {
	return ParseID(ctx.Param("project_id"))
}

// ParseID accepts positive decimal ids only.
func ParseID(raw string) (uint, error) {
	id, err := cast.ToUintE(raw)

	if err != nil || id == 0 {
		return 0, ErrInvalidProjectID
	}

	return id, nil
}
