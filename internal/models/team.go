package models

import "gorm.io/gorm"

// Team is a user-owned set of up to six roster entries.
type Team struct {
	gorm.Model
	Name   string `gorm:"size:255;not null"`
	UserID uint   `gorm:"not null;index"`

	User   User          `gorm:"foreignKey:UserID"`
	Roster []TeamPokemon `gorm:"foreignKey:TeamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
