package repository

import (
	"context"
	"time"

	"github.com/studyhub-dev/studyhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageView is a message joined with its sender's name.
type MessageView struct {
	ID         uint
	ProjectID  uint
	SenderID   uint
	SenderName string
	Message    string
	SentDate   time.Time
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	// ListForProject returns the project's messages, most recent first.
	ListForProject(ctx context.Context, projectID uint) ([]MessageView, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error
}

func (r *messageRepository) ListForProject(ctx context.Context, projectID uint) ([]MessageView, error) {
	var messages []MessageView

	err := r.db.WithContext(ctx).
		Table("messages AS m").
		Select("m.id, m.project_id, m.sender_id, u.name AS sender_name, m.message, m.sent_date").
		Joins("JOIN users AS u ON u.id = m.sender_id").
		Where("m.project_id = ?", projectID).
		Order("m.sent_date DESC, m.id DESC").
		Scan(&messages).Error

	return messages, err
}
