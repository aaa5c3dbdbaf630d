package models

import "time"

// ProjectMember links a user to a project. The pair is unique.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_project_user;index"`
	JoinedAt  time.Time `gorm:"not null"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
