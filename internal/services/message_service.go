package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/studyhub-dev/studyhub/internal/models"
	"github.com/studyhub-dev/studyhub/internal/repository"
)

type ProjectRef struct {
	ID    uint
	Title string
}

// Conversation is the messages screen for one user: the projects they can
// pick from, the selected one, and its messages newest first.
type Conversation struct {
	Projects []ProjectRef
	Selected *ProjectRef
	Messages []repository.MessageView
}

// SendResult tells the caller the message was stored and the input can be cleared.
type SendResult struct {
	Message   *models.Message
	ResetForm bool
}

type MessageService struct {
	clock
	projects repository.ProjectRepository
	messages repository.MessageRepository
}

func NewMessageService(projects repository.ProjectRepository, messages repository.MessageRepository) *MessageService {
	return &MessageService{
		clock:    systemClock(),
		projects: projects,
		messages: messages,
	}
}

func (s *MessageService) JoinedProjects(ctx context.Context, userID uint) ([]ProjectRef, error) {
	projects, err := s.projects.ListForMember(ctx, userID)

	if err != nil {
		return nil, fmt.Errorf("list joined projects: %w", err)
	}

	return lo.Map(projects, func(p repository.ProjectWithCount, _ int) ProjectRef {
		return ProjectRef{ID: p.ID, Title: p.Title}
	}), nil
}

// Open selects projectID among the user's projects, or the first one when
// projectID is 0, and loads its messages.
func (s *MessageService) Open(ctx context.Context, userID, projectID uint) (*Conversation, error) {
	projects, err := s.JoinedProjects(ctx, userID)

	if err != nil {
		return nil, err
	}

	conversation := &Conversation{Projects: projects}

	if len(projects) == 0 {
		return conversation, nil
	}

	selected := projects[0]

	if projectID != 0 {
		found, ok := lo.Find(projects, func(p ProjectRef) bool { return p.ID == projectID })
		if !ok {
			return nil, ErrNotMember
		}
		selected = found
	}

	messages, err := s.List(ctx, selected.ID)

	if err != nil {
		return nil, err
	}

	conversation.Selected = &selected
	conversation.Messages = messages

	return conversation, nil
}

func (s *MessageService) List(ctx context.Context, projectID uint) ([]repository.MessageView, error) {
	messages, err := s.messages.ListForProject(ctx, projectID)

	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}

// Send stores the trimmed body stamped with the current second in UTC.
func (s *MessageService) Send(ctx context.Context, userID, projectID uint, body string) (*SendResult, error) {
	text := strings.TrimSpace(body)

	if text == "" {
		return nil, ErrEmptyMessage
	}

	member, err := s.projects.IsMember(ctx, projectID, userID)

	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}

	if !member {
		return nil, ErrNotMember
	}

	message := &models.Message{
		ProjectID: projectID,
		SenderID:  userID,
		Message:   text,
		SentDate:  s.now().UTC().Truncate(time.Second),
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	return &SendResult{Message: message, ResetForm: true}, nil
}
