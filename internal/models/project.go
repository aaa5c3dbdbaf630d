package models

import "gorm.io/datatypes"

type Project struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	CreatedBy   uint           `gorm:"not null;index"`
	CreatedDate datatypes.Date `gorm:"not null"`

	// Relationships
	Creator User `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
