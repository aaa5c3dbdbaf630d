package models

import (
	"gorm.io/datatypes"
)

type User struct {
	ID          uint           `gorm:"primaryKey"`
	Name        string         `gorm:"not null"`
	Email       string         `gorm:"uniqueIndex;not null"`
	Institution string
	Role        string         `gorm:"not null"` // free-form, compared case-insensitively
	JoinDate    datatypes.Date `gorm:"not null"`
}
