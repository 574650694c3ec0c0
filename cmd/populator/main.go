// Command populator fills the Pokémon and move reference tables from the
// public PokeAPI. It is an offline ingestion step, run before the server
// ever serves catalog traffic, and safe to re-run: every record is
// upserted on its natural key.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"poketeam/backend/internal/config"
	"poketeam/backend/internal/database"
	"poketeam/backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// region --- PokeAPI payloads ---

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type resourceList struct {
	Results []namedResource `json:"results"`
}

type pokemonDetail struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	Order          int    `json:"order"`
	BaseExperience int    `json:"base_experience"`
	IsDefault      bool   `json:"is_default"`
	Species        namedResource `json:"species"`
	Sprites        struct {
		Other struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Types []struct {
		Type namedResource `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability namedResource `json:"ability"`
	} `json:"abilities"`
	Forms []namedResource `json:"forms"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Effort   int           `json:"effort"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
	Moves []struct {
		Move                namedResource `json:"move"`
		VersionGroupDetails []struct {
			LevelLearnedAt  int           `json:"level_learned_at"`
			MoveLearnMethod namedResource `json:"move_learn_method"`
			VersionGroup    namedResource `json:"version_group"`
		} `json:"version_group_details"`
	} `json:"moves"`
}

type speciesDetail struct {
	Generation     namedResource   `json:"generation"`
	CaptureRate    int             `json:"capture_rate"`
	GrowthRate     namedResource   `json:"growth_rate"`
	BaseHappiness  int             `json:"base_happiness"`
	HatchCounter   int             `json:"hatch_counter"`
	GenderRate     int             `json:"gender_rate"`
	Habitat        *namedResource  `json:"habitat"`
	EggGroups      []namedResource `json:"egg_groups"`
	EvolutionChain struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
	FlavorTextEntries []struct {
		FlavorText string        `json:"flavor_text"`
		Language   namedResource `json:"language"`
		Version    namedResource `json:"version"`
	} `json:"flavor_text_entries"`
}

type moveDetail struct {
	Name          string         `json:"name"`
	Power         *int           `json:"power"`
	Accuracy      *int           `json:"accuracy"`
	PP            *int           `json:"pp"`
	DamageClass   *namedResource `json:"damage_class"`
	Type          *namedResource `json:"type"`
	EffectEntries []struct {
		ShortEffect string        `json:"short_effect"`
		Language    namedResource `json:"language"`
	} `json:"effect_entries"`
}

// endregion

func fetchJSON(url string, target interface{}) error {
	res, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", res.StatusCode, url)
	}
	return json.NewDecoder(res.Body).Decode(target)
}

func populatePokemon(limit int) {
	var list resourceList
	url := fmt.Sprintf("https://pokeapi.co/api/v2/pokemon?limit=%d&offset=0", limit)
	if err := fetchJSON(url, &list); err != nil {
		log.Fatalf("Failed to fetch pokemon list: %v", err)
	}

	for _, entry := range list.Results {
		if err := populateOnePokemon(entry.URL); err != nil {
			log.Printf("Error processing %s: %v", entry.Name, err)
		}
	}
	log.Println("All pokemon processed!")
}

func populateOnePokemon(url string) error {
	var detail pokemonDetail
	if err := fetchJSON(url, &detail); err != nil {
		return err
	}

	var species speciesDetail
	if err := fetchJSON(detail.Species.URL, &species); err != nil {
		return err
	}

	var evolutionChain json.RawMessage
	if species.EvolutionChain.URL != "" {
		if err := fetchJSON(species.EvolutionChain.URL, &evolutionChain); err != nil {
			return err
		}
	}

	types := make([]string, len(detail.Types))
	for i, t := range detail.Types {
		types[i] = t.Type.Name
	}
	abilities := make([]string, len(detail.Abilities))
	for i, a := range detail.Abilities {
		abilities[i] = a.Ability.Name
	}
	forms := make([]string, len(detail.Forms))
	for i, f := range detail.Forms {
		forms[i] = f.Name
	}

	var stats models.BaseStats
	evYield := map[string]int{}
	for _, s := range detail.Stats {
		switch s.Stat.Name {
		case "hp":
			stats.HP = s.BaseStat
		case "attack":
			stats.Attack = s.BaseStat
		case "defense":
			stats.Defense = s.BaseStat
		case "special-attack":
			stats.SpecialAttack = s.BaseStat
		case "special-defense":
			stats.SpecialDefense = s.BaseStat
		case "speed":
			stats.Speed = s.BaseStat
		}
		if s.Effort > 0 {
			evYield[s.Stat.Name] = s.Effort
		}
	}

	moveNames := make([]string, len(detail.Moves))
	var movesDetail []models.MoveDetail
	for i, m := range detail.Moves {
		moveNames[i] = m.Move.Name
		for _, vgd := range m.VersionGroupDetails {
			movesDetail = append(movesDetail, models.MoveDetail{
				Move:         m.Move.Name,
				Method:       vgd.MoveLearnMethod.Name,
				Level:        vgd.LevelLearnedAt,
				VersionGroup: vgd.VersionGroup.Name,
			})
		}
	}

	// English flavor text only
	var flavorTexts []models.FlavorText
	for _, entry := range species.FlavorTextEntries {
		if entry.Language.Name == "en" {
			flavorTexts = append(flavorTexts, models.FlavorText{
				FlavorText: entry.FlavorText,
				Version:    entry.Version.Name,
			})
		}
	}

	// gender_rate counts eighths of females; -1 means genderless
	var genderRatio *models.GenderRatio
	if species.GenderRate != -1 {
		genderRatio = &models.GenderRatio{
			Female: float64(species.GenderRate) / 8 * 100,
			Male:   float64(8-species.GenderRate) / 8 * 100,
		}
	}

	habitat := ""
	if species.Habitat != nil {
		habitat = species.Habitat.Name
	}
	eggGroups := make([]string, len(species.EggGroups))
	for i, g := range species.EggGroups {
		eggGroups[i] = g.Name
	}

	pokemon := models.Pokemon{
		Name:              detail.Name,
		PokeAPIID:         detail.ID,
		Types:             datatypes.NewJSONSlice(types),
		Sprite:            detail.Sprites.Other.OfficialArtwork.FrontDefault,
		Height:            detail.Height,
		Weight:            detail.Weight,
		BaseStats:         datatypes.NewJSONType(stats),
		Abilities:         datatypes.NewJSONSlice(abilities),
		Moves:             datatypes.NewJSONSlice(moveNames),
		MovesDetail:       datatypes.NewJSONSlice(movesDetail),
		DexOrder:          detail.Order,
		BaseExperience:    detail.BaseExperience,
		IsDefault:         detail.IsDefault,
		Forms:             datatypes.NewJSONSlice(forms),
		FlavorTextEntries: datatypes.NewJSONSlice(flavorTexts),
		EvolutionChain:    datatypes.JSON(evolutionChain),
		Habitat:           habitat,
		Generation:        species.Generation.Name,
		CaptureRate:       species.CaptureRate,
		GrowthRate:        species.GrowthRate.Name,
		EVYield:           datatypes.NewJSONType(evYield),
		BaseHappiness:     species.BaseHappiness,
		EggGroups:         datatypes.NewJSONSlice(eggGroups),
		EggCycle:          species.HatchCounter,
		GenderRatio:       datatypes.NewJSONType(genderRatio),
		TypeEffectiveness: datatypes.NewJSONType(computeTypeEffectiveness(types)),
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poke_api_id"}},
		UpdateAll: true,
	}).Create(&pokemon).Error
	if err != nil {
		return err
	}

	log.Printf("Inserted/updated: %s (#%d)", pokemon.Name, pokemon.PokeAPIID)
	return nil
}

func populateMoves(limit int) {
	var list resourceList
	url := fmt.Sprintf("https://pokeapi.co/api/v2/move?limit=%d&offset=0", limit)
	if err := fetchJSON(url, &list); err != nil {
		log.Fatalf("Failed to fetch move list: %v", err)
	}

	for _, entry := range list.Results {
		var detail moveDetail
		if err := fetchJSON(entry.URL, &detail); err != nil {
			log.Printf("Error processing %s: %v", entry.Name, err)
			continue
		}
		if detail.DamageClass == nil {
			continue // moves without a damage class are not usable in-app
		}

		elemental := ""
		if detail.Type != nil {
			elemental = detail.Type.Name
		}
		description := ""
		for _, effect := range detail.EffectEntries {
			if effect.Language.Name == "en" {
				description = effect.ShortEffect
				break
			}
		}

		move := models.Move{
			Name:        detail.Name,
			Category:    detail.DamageClass.Name,
			Type:        elemental,
			Power:       detail.Power,
			Accuracy:    detail.Accuracy,
			PP:          detail.PP,
			Description: description,
		}
		err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).Create(&move).Error
		if err != nil {
			log.Printf("Error saving %s: %v", detail.Name, err)
			continue
		}
		log.Printf("Inserted/updated: %s (%s) - %s type", move.Name, move.Category, move.Type)
	}
	log.Println("All moves processed!")
}

// refreshTypeEffectiveness recomputes the effectiveness summary for every
// stored Pokémon, for catalogs ingested before the chart existed.
func refreshTypeEffectiveness() {
	var pokemons []models.Pokemon
	if err := database.DB.Find(&pokemons).Error; err != nil {
		log.Fatalf("Failed to load pokemon: %v", err)
	}

	for _, pokemon := range pokemons {
		summary := computeTypeEffectiveness(pokemon.Types)
		err := database.DB.Model(&pokemon).
			Update("type_effectiveness", datatypes.NewJSONType(summary)).Error
		if err != nil {
			log.Printf("Error updating %s: %v", pokemon.Name, err)
			continue
		}
		log.Printf("Updated effectiveness: %s", pokemon.Name)
	}
	log.Println("Type effectiveness filled!")
}

func main() {
	pokemon := flag.Bool("pokemon", false, "ingest the Pokémon catalog")
	moves := flag.Bool("moves", false, "ingest the move catalog")
	effectiveness := flag.Bool("effectiveness", false, "recompute stored type-effectiveness summaries")
	limit := flag.Int("limit", 10000, "maximum number of entries to fetch per listing")
	flag.Parse()

	if !*pokemon && !*moves && !*effectiveness {
		flag.Usage()
		return
	}

	config.LoadConfig()
	database.Connect(config.AppConfig.DatabaseURL)

	if *pokemon {
		populatePokemon(*limit)
	}
	if *moves {
		populateMoves(*limit)
	}
	if *effectiveness {
		refreshTypeEffectiveness()
	}
}
