package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studyhub-dev/studyhub/internal/models"
	"github.com/studyhub-dev/studyhub/internal/services"
	"github.com/studyhub-dev/studyhub/internal/types"
	"github.com/studyhub-dev/studyhub/internal/utils"
)

const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

type Notice struct {
	Kind string
	Text string
}

// screen is the data every template receives. Only the fields of the
// rendered screen are set.
type screen struct {
	Title      string
	Menu       string
	MenuItems  []types.MenuItem
	User       *models.User
	HasSession bool
	Notice     *Notice

	Roles      []string
	LoginEmail string
	Register   *CreateUserRequest

	Skills         []string
	MinMembers     int
	DefaultMembers int

	Search   string
	Listings []services.ProjectListing

	Projects []services.MyProject

	Conversation *services.Conversation
	Draft        string

	Directory *services.Directory
}

func (h *Handler) render(ctx *gin.Context, status int, name string, data *screen) {
	if current, err := utils.GetCurrentSession(ctx); err == nil {
		data.HasSession = true
		data.User = current.User
		data.MenuItems = types.Menu
	}

	ctx.HTML(status, name, data)
}

func (h *Handler) renderError(ctx *gin.Context, action string, err error) {
	log.Printf("Failed to %s: %v", action, err)
	ctx.String(http.StatusInternalServerError, "Internal server error")
}

func notice(kind, text string) *Notice {
	return &Notice{Kind: kind, Text: text}
}

// Home sends logged-in sessions to Browse Projects and everyone else to Login/Register.
func (h *Handler) Home(ctx *gin.Context) {
	if _, err := utils.GetCurrentSession(ctx); err == nil {
		ctx.Redirect(http.StatusFound, "/projects")
		return
	}
	ctx.Redirect(http.StatusFound, "/login")
}

func (h *Handler) loginScreen(n *Notice) *screen {
	return &screen{
		Title:  types.MenuLogin,
		Menu:   types.MenuLogin,
		Roles:  services.Roles,
		Notice: n,
	}
}

func (h *Handler) LoginScreen(ctx *gin.Context) {
	h.render(ctx, http.StatusOK, "login.tmpl", h.loginScreen(nil))
}

func (h *Handler) LoginForm(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.ShouldBind(&body); err != nil {
		h.render(ctx, http.StatusUnprocessableEntity, "login.tmpl", h.loginScreen(notice(NoticeError, "Please enter your email")))
		return
	}

	result, err := h.auth.Login(ctx.Request.Context(), body.Email)

	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			data := h.loginScreen(notice(NoticeError, err.Error()))
			data.LoginEmail = body.Email
			h.render(ctx, http.StatusNotFound, "login.tmpl", data)
			return
		}
		h.renderError(ctx, "log in", err)
		return
	}

	h.setSessionCookie(ctx, result.Token, result.Session.ExpiresAt)
	ctx.Redirect(http.StatusSeeOther, "/projects")
}

func (h *Handler) RegisterForm(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.ShouldBind(&body); err != nil {
		data := h.loginScreen(notice(NoticeError, services.ErrInvalidEmail.Error()))
		data.Register = &body
		h.render(ctx, http.StatusUnprocessableEntity, "login.tmpl", data)
		return
	}

	_, err := h.auth.Register(ctx.Request.Context(), body.input())

	if err != nil {
		status := http.StatusUnprocessableEntity

		switch {
		case errors.Is(err, services.ErrInvalidEmail):
		case errors.Is(err, services.ErrEmailTaken):
			status = http.StatusConflict
		default:
			h.renderError(ctx, "register", err)
			return
		}

		data := h.loginScreen(notice(NoticeError, err.Error()))
		data.Register = &body
		h.render(ctx, status, "login.tmpl", data)
		return
	}

	h.render(ctx, http.StatusOK, "login.tmpl", h.loginScreen(notice(NoticeSuccess, "Registration successful! Please login.")))
}

func (h *Handler) createProjectScreen(n *Notice) *screen {
	return &screen{
		Title:          "Create New Project",
		Menu:           types.MenuCreateProject,
		Skills:         services.SkillOptions,
		MinMembers:     services.MinMaxMembers,
		DefaultMembers: services.DefaultMaxMembers,
		Notice:         n,
	}
}

func (h *Handler) CreateProjectScreen(ctx *gin.Context) {
	h.render(ctx, http.StatusOK, "create_project.tmpl", h.createProjectScreen(nil))
}

func (h *Handler) CreateProjectForm(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBind(&body); err != nil {
		h.render(ctx, http.StatusUnprocessableEntity, "create_project.tmpl",
			h.createProjectScreen(notice(NoticeError, "Maximum team members must be at least 2")))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if _, err := h.projects.Create(ctx.Request.Context(), userID, body.input()); err != nil {
		h.renderError(ctx, "create project", err)
		return
	}

	h.render(ctx, http.StatusOK, "create_project.tmpl", h.createProjectScreen(notice(NoticeSuccess, "Project created successfully!")))
}

func (h *Handler) browse(ctx *gin.Context, status int, search string, n *Notice) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	listings, err := h.projects.Browse(ctx.Request.Context(), userID, search)

	if err != nil {
		h.renderError(ctx, "browse projects", err)
		return
	}

	h.render(ctx, status, "browse.tmpl", &screen{
		Title:    "Available Projects",
		Menu:     types.MenuBrowse,
		Search:   search,
		Listings: listings,
		Notice:   n,
	})
}

func (h *Handler) BrowseScreen(ctx *gin.Context) {
	h.browse(ctx, http.StatusOK, strings.TrimSpace(ctx.Query("q")), nil)
}

func (h *Handler) JoinProjectForm(ctx *gin.Context) {
	search := strings.TrimSpace(ctx.PostForm("q"))
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		h.browse(ctx, http.StatusNotFound, search, notice(NoticeError, services.ErrProjectNotFound.Error()))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	result, err := h.projects.Join(ctx.Request.Context(), userID, projectID)

	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			h.browse(ctx, http.StatusNotFound, search, notice(NoticeError, err.Error()))
			return
		}
		h.renderError(ctx, "join project", err)
		return
	}

	if result.AlreadyMember {
		h.browse(ctx, http.StatusOK, search, notice(NoticeInfo, "You are already a member of this project"))
		return
	}

	h.browse(ctx, http.StatusOK, search, notice(NoticeSuccess, "Joined project successfully!"))
}

func (h *Handler) MyProjectsScreen(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	mine, err := h.projects.Mine(ctx.Request.Context(), userID)

	if err != nil {
		h.renderError(ctx, "list member projects", err)
		return
	}

	h.render(ctx, http.StatusOK, "my_projects.tmpl", &screen{
		Title:    types.MenuMyProjects,
		Menu:     types.MenuMyProjects,
		Projects: mine,
	})
}

// messages renders the conversation for projectID, falling back to the first
// joined project when the user does not belong to it.
func (h *Handler) messagesScreen(ctx *gin.Context, status int, projectID uint, draft string, n *Notice) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	conversation, err := h.messages.Open(ctx.Request.Context(), userID, projectID)

	if errors.Is(err, services.ErrNotMember) {
		status = http.StatusForbidden
		n = notice(NoticeError, err.Error())
		conversation, err = h.messages.Open(ctx.Request.Context(), userID, 0)
	}

	if err != nil {
		h.renderError(ctx, "open messages", err)
		return
	}

	h.render(ctx, status, "messages.tmpl", &screen{
		Title:        "Project Messages",
		Menu:         types.MenuMessages,
		Conversation: conversation,
		Draft:        draft,
		Notice:       n,
	})
}

func (h *Handler) MessagesScreen(ctx *gin.Context) {
	var projectID uint

	if raw := ctx.Query("project"); raw != "" {
		projectID, _ = utils.ParseID(raw)
	}

	h.messagesScreen(ctx, http.StatusOK, projectID, "", nil)
}

func (h *Handler) SendMessageForm(ctx *gin.Context) {
	var body SendMessageRequest

	if err := ctx.ShouldBind(&body); err != nil {
		h.messagesScreen(ctx, http.StatusUnprocessableEntity, 0, "", notice(NoticeError, "Invalid request"))
		return
	}

	projectID, err := utils.ParseID(ctx.PostForm("project_id"))

	if err != nil {
		h.messagesScreen(ctx, http.StatusUnprocessableEntity, 0, body.Message, notice(NoticeError, err.Error()))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	result, err := h.messages.Send(ctx.Request.Context(), userID, projectID, body.Message)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			h.messagesScreen(ctx, http.StatusUnprocessableEntity, projectID, body.Message, notice(NoticeWarning, err.Error()))
		case errors.Is(err, services.ErrNotMember):
			h.messagesScreen(ctx, http.StatusForbidden, projectID, body.Message, nil)
		default:
			h.renderError(ctx, "send message", err)
		}
		return
	}

	draft := body.Message
	if result.ResetForm {
		draft = ""
	}

	h.messagesScreen(ctx, http.StatusOK, projectID, draft, notice(NoticeSuccess, "Message sent!"))
}

func (h *Handler) CommunityScreen(ctx *gin.Context) {
	directory, err := h.community.Directory(ctx.Request.Context())

	if err != nil {
		h.renderError(ctx, "load community", err)
		return
	}

	h.render(ctx, http.StatusOK, "community.tmpl", &screen{
		Title:     "Community: Students & Teachers",
		Menu:      types.MenuCommunity,
		Directory: directory,
	})
}

func (h *Handler) LogoutForm(ctx *gin.Context) {
	if current, err := utils.GetCurrentSession(ctx); err == nil {
		if err := h.auth.Logout(ctx.Request.Context(), current.SessionID); err != nil {
			h.renderError(ctx, "delete session", err)
			return
		}
	}

	h.clearSessionCookie(ctx)
	ctx.Redirect(http.StatusSeeOther, "/login")
}
