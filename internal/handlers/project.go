package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studyhub-dev/studyhub/internal/services"
	"github.com/studyhub-dev/studyhub/internal/types"
	"github.com/studyhub-dev/studyhub/internal/utils"
)

type CreateProjectRequest struct {
	Title       string   `json:"title" form:"title"`
	Description string   `json:"description" form:"description"`
	Skills      []string `json:"skills" form:"skills"`
	MaxMembers  int      `json:"max_members" form:"max_members" binding:"omitempty,min=2"`
}

func (r CreateProjectRequest) input() services.CreateProjectInput {
	maxMembers := r.MaxMembers
	if maxMembers == 0 {
		maxMembers = services.DefaultMaxMembers
	}

	return services.CreateProjectInput{
		Title:       r.Title,
		Description: r.Description,
		Skills:      r.Skills,
		MaxMembers:  maxMembers,
	}
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := h.projects.Create(ctx.Request.Context(), userID, body.input())

	if err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	response, err := toProjectResponse(project)

	if err != nil {
		log.Printf("Failed to build project response: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response.MemberCount = 1
	response.IsMember = true

	ctx.JSON(http.StatusCreated, response)
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	listings, err := h.projects.Browse(ctx.Request.Context(), userID, strings.TrimSpace(ctx.Query("q")))

	if err != nil {
		log.Printf("Failed to browse projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]types.ProjectResponse, 0, len(listings))

	for _, listing := range listings {
		item, err := toListingResponse(listing)

		if err != nil {
			log.Printf("Failed to build project response: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		response = append(response, item)
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) MyProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	mine, err := h.projects.Mine(ctx.Request.Context(), userID)

	if err != nil {
		log.Printf("Failed to list member projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]types.ProjectResponse, 0, len(mine))

	for _, project := range mine {
		item, err := toMyProjectResponse(project)

		if err != nil {
			log.Printf("Failed to build project response: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		response = append(response, item)
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) JoinProject(ctx *gin.Context) {
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

	result, err := h.projects.Join(ctx.Request.Context(), userID, projectID)

	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to join project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join project"})
		return
	}

	message := "Joined project successfully!"
	if result.AlreadyMember {
		message = "You are already a member of this project"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":        message,
		"project_id":     result.Project.ID,
		"already_member": result.AlreadyMember,
	})
}
