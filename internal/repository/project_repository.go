package repository

import (
	"context"
	"time"

	"github.com/studyhub-dev/studyhub/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemberRow is one entry of a project's roster.
type MemberRow struct {
	ProjectID uint
	UserID    uint
	Name      string
	Role      string
}

// ProjectWithCount is a project annotated with its number of members.
type ProjectWithCount struct {
	ID          uint
	Title       string
	Description string
	CreatedBy   uint
	CreatedDate datatypes.Date
	MemberCount int64
}

type ProjectRepository interface {
	// CreateWithOwner inserts the project and its creator's membership in one transaction.
	CreateWithOwner(ctx context.Context, project *models.Project, joinedAt time.Time) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	// Search lists projects whose title or description contains term; an empty term lists all.
	Search(ctx context.Context, term string) ([]models.Project, error)
	// AddMember reports whether a new membership row was written.
	AddMember(ctx context.Context, projectID, userID uint, joinedAt time.Time) (bool, error)
	IsMember(ctx context.Context, projectID, userID uint) (bool, error)
	MemberProjectIDs(ctx context.Context, userID uint) ([]uint, error)
	ListMembers(ctx context.Context, projectIDs []uint) ([]MemberRow, error)
	ListForMember(ctx context.Context, userID uint) ([]ProjectWithCount, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) CreateWithOwner(ctx context.Context, project *models.Project, joinedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}

		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.CreatedBy,
			JoinedAt:  joinedAt,
		}

		return tx.Omit(clause.Associations).Create(&member).Error
	})
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *projectRepository) Search(ctx context.Context, term string) ([]models.Project, error) {
	var projects []models.Project

	query := r.db.WithContext(ctx).Preload("Creator").Order("id")

	if term != "" {
		pattern := "%" + term + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	err := query.Find(&projects).Error
	return projects, err
}

func (r *projectRepository) AddMember(ctx context.Context, projectID, userID uint, joinedAt time.Time) (bool, error) {
	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		JoinedAt:  joinedAt,
	}

	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *projectRepository) IsMember(ctx context.Context, projectID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *projectRepository) MemberProjectIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Order("project_id").
		Pluck("project_id", &ids).Error
	return ids, err
}

func (r *projectRepository) ListMembers(ctx context.Context, projectIDs []uint) ([]MemberRow, error) {
	var rows []MemberRow

	if len(projectIDs) == 0 {
		return rows, nil
	}

	err := r.db.WithContext(ctx).
		Table("project_members AS pm").
		Select("pm.project_id, u.id AS user_id, u.name, u.role").
		Joins("JOIN users AS u ON u.id = pm.user_id").
		Where("pm.project_id IN ?", projectIDs).
		Order("pm.project_id, pm.id").
		Scan(&rows).Error

	return rows, err
}

func (r *projectRepository) ListForMember(ctx context.Context, userID uint) ([]ProjectWithCount, error) {
	var rows []ProjectWithCount

	mine := r.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Select("projects.id, projects.title, projects.description, projects.created_by, projects.created_date, COUNT(pm.user_id) AS member_count").
		Joins("JOIN project_members AS pm ON pm.project_id = projects.id").
		Where("projects.id IN (?)", mine).
		Group("projects.id, projects.title, projects.description, projects.created_by, projects.created_date").
		Order("projects.id").
		Scan(&rows).Error

	return rows, err
}
