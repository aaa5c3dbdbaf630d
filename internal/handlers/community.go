package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Community(ctx *gin.Context) {
	directory, err := h.community.Directory(ctx.Request.Context())

	if err != nil {
		log.Printf("Failed to load community: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve community"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"students": toCommunityResponses(directory.Students),
		"teachers": toCommunityResponses(directory.Teachers),
	})
}
