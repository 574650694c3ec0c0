package models

import (
	"time"

	"gorm.io/datatypes"
)

// TeamPokemon binds one Pokémon to a team slot and carries the optional
// battle customization for that entry.
//
// Rows are hard-deleted: the (team_id, slot) unique index must stay free
// for reuse when an entry is removed or the roster is replaced.
type TeamPokemon struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	TeamID    uint `gorm:"not null;uniqueIndex:idx_team_slot,priority:1"`
	PokemonID uint `gorm:"not null;index"`
	Slot      int  `gorm:"not null;uniqueIndex:idx_team_slot,priority:2"` // 1..6

	Moves   datatypes.JSONSlice[string]
	Ability *string `gorm:"size:255"`
	Nature  *string `gorm:"size:255"`

	Team    Team    `gorm:"foreignKey:TeamID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Pokemon Pokemon `gorm:"foreignKey:PokemonID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
