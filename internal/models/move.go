package models

import "time"

// Move is immutable reference data for a single battle move.
type Move struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Category    string `gorm:"size:50;not null" json:"category"` // physical, special or status
	Type        string `gorm:"size:50" json:"type"`              // elemental type
	Power       *int   `json:"power"`
	Accuracy    *int   `json:"accuracy"`
	PP          *int   `json:"pp"`
	Description string `json:"description"`
}
