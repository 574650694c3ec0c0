package models

import (
	"time"

	"gorm.io/datatypes"
)

// BaseStats holds the six base stat values, keyed the way the catalog
// source names them.
type BaseStats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special-attack"`
	SpecialDefense int `json:"special-defense"`
	Speed          int `json:"speed"`
}

// MoveDetail describes one way a Pokémon learns a move.
type MoveDetail struct {
	Move         string `json:"move"`
	Method       string `json:"method"`
	Level        int    `json:"level"`
	VersionGroup string `json:"version_group"`
}

// FlavorText is a Pokédex entry for one game version.
type FlavorText struct {
	FlavorText string `json:"flavor_text"`
	Version    string `json:"version"`
}

// GenderRatio holds the male/female split in percent. Absent for
// genderless species.
type GenderRatio struct {
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
}

// TypeEffectiveness buckets attacking types by the damage multiplier they
// deal to this Pokémon's type combination.
type TypeEffectiveness struct {
	X4   []string `json:"x4"`
	X2   []string `json:"x2"`
	X1   []string `json:"x1"`
	X05  []string `json:"x0_5"`
	X025 []string `json:"x0_25"`
	X0   []string `json:"x0"`
}

// Pokemon is immutable reference data populated by the offline populator.
type Pokemon struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name      string                        `gorm:"size:255;not null;index" json:"name"`
	PokeAPIID int                           `gorm:"column:poke_api_id;uniqueIndex;not null" json:"pokeApiId"`
	Types     datatypes.JSONSlice[string]   `json:"types"`
	Sprite    string                        `gorm:"size:512" json:"sprite"`
	Height    int                           `json:"height"` // decimetres
	Weight    int                           `json:"weight"` // hectograms
	BaseStats datatypes.JSONType[BaseStats] `json:"baseStats"`
	Abilities datatypes.JSONSlice[string]   `json:"abilities"`
	Moves     datatypes.JSONSlice[string]   `json:"moves"`

	MovesDetail       datatypes.JSONSlice[MoveDetail]          `json:"moves_detail"`
	DexOrder          int                                      `gorm:"column:dex_order" json:"order"`
	BaseExperience    int                                      `json:"base_experience"`
	IsDefault         bool                                     `json:"is_default"`
	Forms             datatypes.JSONSlice[string]              `json:"forms"`
	FlavorTextEntries datatypes.JSONSlice[FlavorText]          `json:"flavor_text_entries"`
	EvolutionChain    datatypes.JSON                           `json:"evolution_chain"`
	Habitat           string                                   `gorm:"size:100" json:"habitat"`
	Generation        string                                   `gorm:"size:50;index" json:"generation"`
	CaptureRate       int                                      `json:"capture_rate"`
	GrowthRate        string                                   `gorm:"size:100" json:"growth_rate"`
	EVYield           datatypes.JSONType[map[string]int]       `json:"ev_yield"`
	BaseHappiness     int                                      `json:"base_happiness"`
	EggGroups         datatypes.JSONSlice[string]              `json:"egg_groups"`
	EggCycle          int                                      `json:"egg_cycle"`
	GenderRatio       datatypes.JSONType[*GenderRatio]         `json:"gender_ratio"`
	TypeEffectiveness datatypes.JSONType[*TypeEffectiveness]   `json:"type_effectiveness"`
}
