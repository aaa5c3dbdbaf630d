package models

import "time"

// Session maps an opaque session id to the user it authenticates.
// There is no foreign key to users: a session can outlive its user row.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
