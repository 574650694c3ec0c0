package main

import "poketeam/backend/internal/models"

// typeChart maps attacking type -> defending type -> damage multiplier.
// Omitted pairs deal normal (1x) damage.
var typeChart = map[string]map[string]float64{
	"normal":   {"rock": 0.5, "ghost": 0, "steel": 0.5},
	"fire":     {"fire": 0.5, "water": 0.5, "grass": 2, "ice": 2, "bug": 2, "rock": 0.5, "dragon": 0.5, "steel": 2},
	"water":    {"fire": 2, "water": 0.5, "grass": 0.5, "ground": 2, "rock": 2, "dragon": 0.5},
	"electric": {"water": 2, "electric": 0.5, "grass": 0.5, "ground": 0, "flying": 2, "dragon": 0.5},
	"grass":    {"fire": 0.5, "water": 2, "grass": 0.5, "poison": 0.5, "ground": 2, "flying": 0.5, "bug": 0.5, "rock": 2, "dragon": 0.5, "steel": 0.5},
	"ice":      {"fire": 0.5, "water": 0.5, "grass": 2, "ice": 0.5, "ground": 2, "flying": 2, "dragon": 2, "steel": 0.5},
	"fighting": {"normal": 2, "ice": 2, "poison": 0.5, "flying": 0.5, "psychic": 0.5, "bug": 0.5, "rock": 2, "ghost": 0, "dark": 2, "steel": 2, "fairy": 0.5},
	"poison":   {"grass": 2, "poison": 0.5, "ground": 0.5, "rock": 0.5, "ghost": 0.5, "steel": 0, "fairy": 2},
	"ground":   {"fire": 2, "electric": 2, "grass": 0.5, "poison": 2, "flying": 0, "bug": 0.5, "rock": 2, "steel": 2},
	"flying":   {"electric": 0.5, "grass": 2, "ice": 0.5, "fighting": 2, "bug": 2, "rock": 0.5, "steel": 0.5},
	"psychic":  {"fighting": 2, "poison": 2, "psychic": 0.5, "dark": 0, "steel": 0.5},
	"bug":      {"fire": 0.5, "grass": 2, "fighting": 0.5, "poison": 0.5, "flying": 0.5, "psychic": 2, "ghost": 0.5, "dark": 2, "steel": 0.5, "fairy": 0.5},
	"rock":     {"fire": 2, "ice": 2, "fighting": 0.5, "ground": 0.5, "flying": 2, "bug": 2, "steel": 0.5},
	"ghost":    {"normal": 0, "psychic": 2, "ghost": 2, "dark": 0.5},
	"dragon":   {"dragon": 2, "steel": 0.5, "fairy": 0},
	"dark":     {"fighting": 0.5, "psychic": 2, "bug": 0.5, "ghost": 2, "dark": 0.5, "fairy": 0.5},
	"steel":    {"fire": 0.5, "water": 0.5, "electric": 0.5, "ice": 2, "rock": 2, "steel": 0.5, "fairy": 2},
	"fairy":    {"fire": 0.5, "fighting": 2, "poison": 0.5, "dragon": 2, "dark": 2, "steel": 0.5},
}

var allTypes = []string{
	"normal", "fire", "water", "electric", "grass", "ice", "fighting",
	"poison", "ground", "flying", "psychic", "bug", "rock", "ghost",
	"dragon", "dark", "steel", "fairy",
}

// computeTypeEffectiveness multiplies the chart entries for each of the
// Pokémon's defending types and buckets every attacking type by the
// resulting multiplier.
func computeTypeEffectiveness(defendingTypes []string) *models.TypeEffectiveness {
	summary := &models.TypeEffectiveness{
		X4:   []string{},
		X2:   []string{},
		X1:   []string{},
		X05:  []string{},
		X025: []string{},
		X0:   []string{},
	}

	for _, attacking := range allTypes {
		multiplier := 1.0
		for _, defending := range defendingTypes {
			if m, ok := typeChart[attacking][defending]; ok {
				multiplier *= m
			}
		}

		switch multiplier {
		case 4:
			summary.X4 = append(summary.X4, attacking)
		case 2:
			summary.X2 = append(summary.X2, attacking)
		case 1:
			summary.X1 = append(summary.X1, attacking)
		case 0.5:
			summary.X05 = append(summary.X05, attacking)
		case 0.25:
			summary.X025 = append(summary.X025, attacking)
		case 0:
			summary.X0 = append(summary.X0, attacking)
		}
	}

	return summary
}
