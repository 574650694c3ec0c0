package models

import "gorm.io/gorm"

// User represents a registered trainer.
type User struct {
	gorm.Model
	Username     string  `gorm:"size:30;unique;not null"`
	Email        string  `gorm:"size:255;unique;not null"`
	PasswordHash string  `gorm:"size:255;not null"`
	GoogleID     *string `gorm:"size:255;index"` // Google subject id, set on first OAuth login
	Role         string  `gorm:"size:50;not null;default:'trainer';index"`

	Teams []Team `gorm:"foreignKey:UserID"`
}
