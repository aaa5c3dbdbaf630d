package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyhub-dev/studyhub/internal/repository"
	"github.com/studyhub-dev/studyhub/internal/services"
	"github.com/studyhub-dev/studyhub/internal/utils"
)

type SendMessageRequest struct {
	Message string `json:"message" form:"message"`
}

func (h *Handler) GetMessages(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	conversation, err := h.messages.Open(ctx.Request.Context(), userID, projectID)

	if err != nil {
		if errors.Is(err, services.ErrNotMember) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to list messages: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	response, err := toMessageResponses(conversation.Messages)

	if err != nil {
		log.Printf("Failed to build message response: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) SendMessage(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body SendMessageRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	current, err := utils.GetCurrentSession(ctx)

	if err != nil || !current.LoggedIn() {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.messages.Send(ctx.Request.Context(), current.UserID, projectID, body.Message)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotMember):
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			log.Printf("Failed to send message: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		}
		return
	}

	sent, err := toMessageResponses([]repository.MessageView{{
		ID:         result.Message.ID,
		ProjectID:  result.Message.ProjectID,
		SenderID:   result.Message.SenderID,
		SenderName: current.User.Name,
		Message:    result.Message.Message,
		SentDate:   result.Message.SentDate,
	}})

	if err != nil {
		log.Printf("Failed to build message response: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":    sent[0],
		"reset_form": result.ResetForm,
	})
}
