package handler

import (
	"encoding/json"
	"net/http"
	"poketeam/backend/internal/apperr"
	"poketeam/backend/internal/database"
	"poketeam/backend/internal/models"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxTeamSize = 6

// region --- DTOs ---

// CreateTeamInput defines the structure for creating a team.
type CreateTeamInput struct {
	Name string `json:"name" binding:"required" example:"Kanto Starters"`
}

// UpdateTeamInput defines the structure for renaming a team and/or
// replacing its whole roster. A nil PokemonIDs leaves the roster alone;
// an empty slice clears it.
type UpdateTeamInput struct {
	Name       string  `json:"name"`
	PokemonIDs *[]uint `json:"pokemonIds"`
}

// AddPokemonInput defines the structure for adding a Pokémon to a team.
type AddPokemonInput struct {
	PokemonID uint `json:"pokemonId" binding:"required" example:"25"`
}

// MovesField accepts a moveset either as a JSON list or as a single
// comma-separated string.
type MovesField []string

func (m *MovesField) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*m = list
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var moves []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			moves = append(moves, part)
		}
	}
	*m = moves
	return nil
}

// EditPokemonDetailsInput defines the customization fields of a roster
// entry. Omitted fields are cleared, matching the PATCH contract the SPA
// relies on.
type EditPokemonDetailsInput struct {
	Moves   MovesField `json:"moves"`
	Ability *string    `json:"ability"`
	Nature  *string    `json:"nature"`
}

// RosterEntryResponse is one Pokémon on a team with its customization.
type RosterEntryResponse struct {
	ID      uint           `json:"id"` // roster entry id, used for removal
	Pokemon models.Pokemon `json:"Pokemon"`
	Moves   []string       `json:"moves"`
	Ability *string        `json:"ability"`
	Nature  *string        `json:"nature"`
	Slot    int            `json:"slot"`
}

// TeamResponse is a team with its roster ordered by slot.
type TeamResponse struct {
	ID       uint                  `json:"id"`
	Name     string                `json:"name"`
	UserID   uint                  `json:"userId"`
	Pokemons []RosterEntryResponse `json:"Pokemons"`
}

// AddedPokemonResponse is the inserted roster entry with the Pokémon's
// display name attached.
type AddedPokemonResponse struct {
	Name      string   `json:"name"`
	ID        uint     `json:"id"`
	TeamID    uint     `json:"teamId"`
	PokemonID uint     `json:"pokemonId"`
	Slot      int      `json:"slot"`
	Moves     []string `json:"moves"`
	Ability   *string  `json:"ability"`
	Nature    *string  `json:"nature"`
}

func newTeamResponse(team models.Team) TeamResponse {
	entries := make([]RosterEntryResponse, 0, len(team.Roster))
	for _, entry := range team.Roster {
		entries = append(entries, RosterEntryResponse{
			ID:      entry.ID,
			Pokemon: entry.Pokemon,
			Moves:   entry.Moves,
			Ability: entry.Ability,
			Nature:  entry.Nature,
			Slot:    entry.Slot,
		})
	}
	return TeamResponse{
		ID:       team.ID,
		Name:     team.Name,
		UserID:   team.UserID,
		Pokemons: entries,
	}
}

// endregion

// region --- Helpers ---

// findOwnedTeam loads a team only if the caller owns it. Existence and
// ownership failures are indistinguishable so other users' teams cannot be
// probed.
func findOwnedTeam(teamID, userID uint) (*models.Team, error) {
	var team models.Team
	err := database.DB.Where("id = ? AND user_id = ?", teamID, userID).First(&team).Error
	if err != nil {
		return nil, apperr.NotFound("Team not found")
	}
	return &team, nil
}

// loadTeamWithRoster reloads a team with its roster ordered by slot, each
// entry carrying the full Pokémon record.
func loadTeamWithRoster(teamID uint) (*models.Team, error) {
	var team models.Team
	err := database.DB.
		Preload("Roster", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		Preload("Roster.Pokemon").
		First(&team, teamID).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func teamIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.BadRequest("Invalid team ID")
	}
	return uint(id), nil
}

// endregion

// region --- Team Handlers ---

// CreateTeam godoc
// @Summary      Create a team
// @Description  Creates an empty team owned by the caller.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CreateTeamInput true "Team Info"
// @Success      201  {object}  TeamResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /teams [post]
func CreateTeam(c *gin.Context) {
	var input CreateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team := models.Team{Name: input.Name, UserID: currentUserID(c)}
	if err := database.DB.Create(&team).Error; err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTeamResponse(team))
}

// GetTeams godoc
// @Summary      List the caller's teams
// @Description  Returns all teams owned by the caller with their rosters expanded.
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   TeamResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /teams [get]
func GetTeams(c *gin.Context) {
	var teams []models.Team
	err := database.DB.
		Where("user_id = ?", currentUserID(c)).
		Preload("Roster", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		Preload("Roster.Pokemon").
		Find(&teams).Error
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]TeamResponse, 0, len(teams))
	for _, team := range teams {
		response = append(response, newTeamResponse(team))
	}
	c.JSON(http.StatusOK, response)
}

// GetTeamByID godoc
// @Summary      Get a team
// @Description  Returns one of the caller's teams with its roster ordered by slot.
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Team ID"
// @Success      200  {object}  TeamResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Team not found"
// @Router       /teams/{id} [get]
func GetTeamByID(c *gin.Context) {
	teamID, err := teamIDParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if _, err := findOwnedTeam(teamID, currentUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	team, err := loadTeamWithRoster(teamID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTeamResponse(*team))
}

// UpdateTeam godoc
// @Summary      Update a team
// @Description  Renames a team and/or replaces its whole roster. A supplied pokemonIds list is assigned to slots 1..N in order and discards any per-entry customization.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Team ID"
// @Param        input body      UpdateTeamInput true  "Changes"
// @Success      200  {object}  TeamResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Team not found"
// @Router       /teams/{id} [put]
func UpdateTeam(c *gin.Context) {
	teamID, err := teamIDParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var input UpdateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := findOwnedTeam(teamID, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	if input.PokemonIDs != nil && len(*input.PokemonIDs) > maxTeamSize {
		abortWithError(c, apperr.BadRequest("A team can have a maximum of 6 Pokémon."))
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if input.Name != "" {
			if err := tx.Model(team).Update("name", input.Name).Error; err != nil {
				return err
			}
		}

		if input.PokemonIDs == nil {
			return nil
		}

		// Full replace: drop every entry, then rebuild slots 1..N in the
		// order given. Prior moves/ability/nature are intentionally lost.
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamPokemon{}).Error; err != nil {
			return err
		}
		for idx, pokemonID := range *input.PokemonIDs {
			entry := models.TeamPokemon{
				TeamID:    team.ID,
				PokemonID: pokemonID,
				Slot:      idx + 1,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	updated, err := loadTeamWithRoster(team.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTeamResponse(*updated))
}

// DeleteTeam godoc
// @Summary      Delete a team
// @Description  Deletes a team and all of its roster entries.
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Team ID"
// @Success      200  {object}  map[string]string "{"message": "Team deleted"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Team not found"
// @Router       /teams/{id} [delete]
func DeleteTeam(c *gin.Context) {
	teamID, err := teamIDParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	team, err := findOwnedTeam(teamID, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := database.DB.Where("team_id = ?", team.ID).Delete(&models.TeamPokemon{}).Error; err != nil {
		abortWithError(c, err)
		return
	}
	if err := database.DB.Delete(team).Error; err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team deleted"})
}

// endregion

// region --- Roster Handlers ---

// AddPokemon godoc
// @Summary      Add a Pokémon to a team
// @Description  Inserts the Pokémon at the lowest free slot. Teams hold at most 6 Pokémon.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Team ID"
// @Param        input body      AddPokemonInput true  "Pokemon to add"
// @Success      201  {object}  map[string]interface{} "{"team": {...}, "pokemon": {...}}"
// @Failure      400  {object}  ErrorResponse "Team is full"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Team not found"
// @Router       /teams/{id}/pokemon [post]
func AddPokemon(c *gin.Context) {
	teamID, err := teamIDParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var input AddPokemonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := findOwnedTeam(teamID, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	var existing []models.TeamPokemon
	if err := database.DB.Where("team_id = ?", team.ID).Order("slot ASC").Find(&existing).Error; err != nil {
		abortWithError(c, err)
		return
	}
	if len(existing) >= maxTeamSize {
		abortWithError(c, apperr.BadRequest("A team can have a maximum of 6 Pokémon."))
		return
	}

	// Lowest free slot wins; removals leave holes that get refilled first.
	occupied := make(map[int]bool, len(existing))
	for _, entry := range existing {
		occupied[entry.Slot] = true
	}
	slot := 1
	for ; slot <= maxTeamSize; slot++ {
		if !occupied[slot] {
			break
		}
	}

	entry := models.TeamPokemon{TeamID: team.ID, PokemonID: input.PokemonID, Slot: slot}
	if err := database.DB.Create(&entry).Error; err != nil {
		abortWithError(c, err)
		return
	}

	var pokemon models.Pokemon
	if err := database.DB.Select("id", "name").First(&pokemon, input.PokemonID).Error; err != nil {
		abortWithError(c, err)
		return
	}

	updated, err := loadTeamWithRoster(team.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"team": newTeamResponse(*updated),
		"pokemon": AddedPokemonResponse{
			Name:      pokemon.Name,
			ID:        entry.ID,
			TeamID:    entry.TeamID,
			PokemonID: entry.PokemonID,
			Slot:      entry.Slot,
			Moves:     entry.Moves,
			Ability:   entry.Ability,
			Nature:    entry.Nature,
		},
	})
}

// RemovePokemon godoc
// @Summary      Remove a Pokémon from a team
// @Description  Deletes the roster entry for the given Pokémon. Remaining slots keep their numbers.
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  int  true  "Team ID"
// @Param        pokemonId path  int  true  "Pokemon ID"
// @Success      200  {object}  TeamResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Team or roster entry not found"
// @Router       /teams/{id}/pokemon/{pokemonId} [delete]
func RemovePokemon(c *gin.Context) {
	teamID, err := teamIDParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	pokemonID, err := strconv.ParseUint(c.Param("pokemonId"), 10, 32)
	if err != nil {
		abortWithError(c, apperr.BadRequest("Invalid pokemon ID"))
		return
	}

	team, err := findOwnedTeam(teamID, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := database.DB.Where("team_id = ? AND pokemon_id = ?", team.ID, uint(pokemonID)).Delete(&models.TeamPokemon{})
	if result.Error != nil {
		abortWithError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		abortWithError(c, apperr.NotFound("Pokemon not found in team"))
		return
	}

	updated, err := loadTeamWithRoster(team.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTeamResponse(*updated))
}

// EditPokemonDetails godoc
// @Summary      Customize a roster entry
// @Description  Sets the moveset, ability and nature of one Pokémon on a team. Moves accept a list or a comma-separated string; omitted fields are cleared.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  int                     true  "Team ID"
// @Param        pokemonId path  int                     true  "Pokemon ID"
// @Param        input     body  EditPokemonDetailsInput true  "Customization"
// @Success      200  {object}  map[string]string "{"message": "Pokemon details updated successfully"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Roster entry not found"
// @Router       /teams/{id}/pokemon/{pokemonId} [patch]
func EditPokemonDetails(c *gin.Context) {
	teamID, err := teamIDParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	pokemonID, err := strconv.ParseUint(c.Param("pokemonId"), 10, 32)
	if err != nil {
		abortWithError(c, apperr.BadRequest("Invalid pokemon ID"))
		return
	}

	var input EditPokemonDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := findOwnedTeam(teamID, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	var entry models.TeamPokemon
	if err := database.DB.Where("team_id = ? AND pokemon_id = ?", team.ID, uint(pokemonID)).First(&entry).Error; err != nil {
		abortWithError(c, apperr.NotFound("Pokemon not found in team"))
		return
	}

	var moves interface{}
	if input.Moves != nil {
		moves = datatypes.NewJSONSlice([]string(input.Moves))
	}
	updates := map[string]interface{}{
		"moves":   moves,
		"ability": input.Ability,
		"nature":  input.Nature,
	}
	if err := database.DB.Model(&entry).Updates(updates).Error; err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pokemon details updated successfully"})
}

// endregion
