package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) HealthCheck(ctx *gin.Context) {
	if h.ping != nil {
		if err := h.ping(ctx.Request.Context()); err != nil {
			log.Printf("Health check failed: %v", err)
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unavailable",
				"message":   "Database is not reachable",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "StudyHub is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
