package handler

import (
	"net/http"
	"testing"

	"poketeam/backend/internal/database"
	"poketeam/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTeam(t *testing.T, userID uint, name string) models.Team {
	t.Helper()
	team := models.Team{Name: name, UserID: userID}
	require.NoError(t, database.DB.Create(&team).Error)
	return team
}

func addRosterEntry(t *testing.T, teamID, pokemonID uint, slot int) models.TeamPokemon {
	t.Helper()
	entry := models.TeamPokemon{TeamID: teamID, PokemonID: pokemonID, Slot: slot}
	require.NoError(t, database.DB.Create(&entry).Error)
	return entry
}

func rosterSlots(t *testing.T, teamID uint) []int {
	t.Helper()
	var entries []models.TeamPokemon
	require.NoError(t, database.DB.Where("team_id = ?", teamID).Order("slot ASC").Find(&entries).Error)
	slots := make([]int, len(entries))
	for i, entry := range entries {
		slots[i] = entry.Slot
	}
	return slots
}

func TestCreateTeam(t *testing.T) {
	setupTest(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodPost, "/teams", token, gin.H{"name": "Kanto Starters"})

	require.Equal(t, http.StatusCreated, w.Code)
	var result TeamResponse
	decodeBody(t, w, &result)
	assert.Equal(t, "Kanto Starters", result.Name)
	assert.Equal(t, user.ID, result.UserID)
	assert.Empty(t, result.Pokemons)
}

func TestCreateTeamRequiresName(t *testing.T) {
	setupTest(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodPost, "/teams", token, gin.H{"name": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTeamByIDOrdersRosterBySlot(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Kanto Starters")
	addRosterEntry(t, team.ID, seeded["pikachu"].ID, 3)
	addRosterEntry(t, team.ID, seeded["bulbasaur"].ID, 1)
	addRosterEntry(t, team.ID, seeded["charmander"].ID, 2)
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodGet, "/teams/"+itoa(team.ID), token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var result TeamResponse
	decodeBody(t, w, &result)
	require.Len(t, result.Pokemons, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{result.Pokemons[0].Slot, result.Pokemons[1].Slot, result.Pokemons[2].Slot})
	assert.Equal(t, "bulbasaur", result.Pokemons[0].Pokemon.Name)
	assert.Equal(t, "charmander", result.Pokemons[1].Pokemon.Name)
	assert.Equal(t, "pikachu", result.Pokemons[2].Pokemon.Name)
}

func TestGetTeamByIDHidesOtherUsersTeams(t *testing.T) {
	setupTest(t)
	owner := createUser(t, "red", "red@example.com", "trainer")
	intruder := createUser(t, "blue", "blue@example.com", "trainer")
	team := createTeam(t, owner.ID, "Secret Team")
	router := newTestRouter()

	notOwned := doRequest(router, http.MethodGet, "/teams/"+itoa(team.ID), authToken(t, intruder), nil)
	missing := doRequest(router, http.MethodGet, "/teams/99999", authToken(t, intruder), nil)

	// Ownership and existence failures must be indistinguishable.
	assert.Equal(t, http.StatusNotFound, notOwned.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, notOwned.Body.String(), missing.Body.String())
}

func TestAddPokemonAssignsLowestFreeSlot(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Slots")
	addRosterEntry(t, team.ID, seeded["bulbasaur"].ID, 1)
	addRosterEntry(t, team.ID, seeded["charmander"].ID, 3)
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodPost, "/teams/"+itoa(team.ID)+"/pokemon", token,
		gin.H{"pokemonId": seeded["pikachu"].ID})

	require.Equal(t, http.StatusCreated, w.Code)
	var result struct {
		Team    TeamResponse         `json:"team"`
		Pokemon AddedPokemonResponse `json:"pokemon"`
	}
	decodeBody(t, w, &result)
	assert.Equal(t, 2, result.Pokemon.Slot)
	assert.Equal(t, "pikachu", result.Pokemon.Name)
	assert.Equal(t, []int{1, 2, 3}, rosterSlots(t, team.ID))
}

func TestAddPokemonRejectsSeventhMember(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Full House")
	for slot := 1; slot <= 6; slot++ {
		addRosterEntry(t, team.ID, seeded["bulbasaur"].ID, slot)
	}
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodPost, "/teams/"+itoa(team.ID)+"/pokemon", token,
		gin.H{"pokemonId": seeded["pikachu"].ID})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "maximum of 6")
	assert.Len(t, rosterSlots(t, team.ID), 6)
}

func TestRemovePokemonKeepsOtherSlots(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Holes")
	addRosterEntry(t, team.ID, seeded["bulbasaur"].ID, 1)
	addRosterEntry(t, team.ID, seeded["charmander"].ID, 2)
	addRosterEntry(t, team.ID, seeded["pikachu"].ID, 3)
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodDelete,
		"/teams/"+itoa(team.ID)+"/pokemon/"+itoa(seeded["charmander"].ID), token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	// No renumbering: remaining entries keep slots 1 and 3.
	assert.Equal(t, []int{1, 3}, rosterSlots(t, team.ID))
}

func TestRemovePokemonNotInTeam(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Empty")
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodDelete,
		"/teams/"+itoa(team.ID)+"/pokemon/"+itoa(seeded["pikachu"].ID), token, nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Pokemon not found in team")
}

func TestUpdateTeamReplacesRosterInOrder(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Rebuild")
	ability := "static"
	entry := models.TeamPokemon{TeamID: team.ID, PokemonID: seeded["pikachu"].ID, Slot: 5, Ability: &ability}
	require.NoError(t, database.DB.Create(&entry).Error)
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodPut, "/teams/"+itoa(team.ID), token, gin.H{
		"pokemonIds": []uint{seeded["charizard"].ID, seeded["bulbasaur"].ID, seeded["pikachu"].ID},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var result TeamResponse
	decodeBody(t, w, &result)
	require.Len(t, result.Pokemons, 3)
	assert.Equal(t, "charizard", result.Pokemons[0].Pokemon.Name)
	assert.Equal(t, 1, result.Pokemons[0].Slot)
	assert.Equal(t, "bulbasaur", result.Pokemons[1].Pokemon.Name)
	assert.Equal(t, 2, result.Pokemons[1].Slot)
	assert.Equal(t, "pikachu", result.Pokemons[2].Pokemon.Name)
	assert.Equal(t, 3, result.Pokemons[2].Slot)

	// Full replace discards prior customization.
	var replaced models.TeamPokemon
	require.NoError(t, database.DB.
		Where("team_id = ? AND pokemon_id = ?", team.ID, seeded["pikachu"].ID).
		First(&replaced).Error)
	assert.Nil(t, replaced.Ability)
}

func TestUpdateTeamRejectsOversizedRoster(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Too Big")
	router := newTestRouter()
	token := authToken(t, user)

	ids := make([]uint, 7)
	for i := range ids {
		ids[i] = seeded["bulbasaur"].ID
	}
	w := doRequest(router, http.MethodPut, "/teams/"+itoa(team.ID), token, gin.H{"pokemonIds": ids})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "maximum of 6")
}

func TestUpdateTeamRenameOnlyKeepsRoster(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Old Name")
	nature := "jolly"
	entry := models.TeamPokemon{TeamID: team.ID, PokemonID: seeded["pikachu"].ID, Slot: 2, Nature: &nature}
	require.NoError(t, database.DB.Create(&entry).Error)
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodPut, "/teams/"+itoa(team.ID), token, gin.H{"name": "New Name"})

	require.Equal(t, http.StatusOK, w.Code)
	var result TeamResponse
	decodeBody(t, w, &result)
	assert.Equal(t, "New Name", result.Name)
	require.Len(t, result.Pokemons, 1)
	assert.Equal(t, 2, result.Pokemons[0].Slot)
	require.NotNil(t, result.Pokemons[0].Nature)
	assert.Equal(t, "jolly", *result.Pokemons[0].Nature)
}

func TestDeleteTeamCascadesToRoster(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Doomed")
	addRosterEntry(t, team.ID, seeded["bulbasaur"].ID, 1)
	addRosterEntry(t, team.ID, seeded["pikachu"].ID, 2)
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodDelete, "/teams/"+itoa(team.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Team deleted")

	var orphans int64
	require.NoError(t, database.DB.Model(&models.TeamPokemon{}).
		Where("team_id = ?", team.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)

	after := doRequest(router, http.MethodGet, "/teams/"+itoa(team.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, after.Code)
}

func TestEditPokemonDetailsAcceptsCommaSeparatedMoves(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Customized")
	addRosterEntry(t, team.ID, seeded["pikachu"].ID, 1)
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodPatch,
		"/teams/"+itoa(team.ID)+"/pokemon/"+itoa(seeded["pikachu"].ID), token,
		gin.H{"moves": "tackle, growl", "ability": "static", "nature": "jolly"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "updated successfully")

	var entry models.TeamPokemon
	require.NoError(t, database.DB.
		Where("team_id = ? AND pokemon_id = ?", team.ID, seeded["pikachu"].ID).
		First(&entry).Error)
	assert.Equal(t, []string{"tackle", "growl"}, []string(entry.Moves))
	require.NotNil(t, entry.Ability)
	assert.Equal(t, "static", *entry.Ability)
	require.NotNil(t, entry.Nature)
	assert.Equal(t, "jolly", *entry.Nature)
}

func TestEditPokemonDetailsAcceptsMoveList(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Customized")
	addRosterEntry(t, team.ID, seeded["pikachu"].ID, 1)
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodPatch,
		"/teams/"+itoa(team.ID)+"/pokemon/"+itoa(seeded["pikachu"].ID), token,
		gin.H{"moves": []string{"thunderbolt", "quick-attack"}})

	require.Equal(t, http.StatusOK, w.Code)

	var entry models.TeamPokemon
	require.NoError(t, database.DB.
		Where("team_id = ? AND pokemon_id = ?", team.ID, seeded["pikachu"].ID).
		First(&entry).Error)
	assert.Equal(t, []string{"thunderbolt", "quick-attack"}, []string(entry.Moves))
}

func TestEditPokemonDetailsUnknownEntry(t *testing.T) {
	setupTest(t)
	seeded := seedPokemon(t)
	user := createUser(t, "red", "red@example.com", "trainer")
	team := createTeam(t, user.ID, "Sparse")
	router := newTestRouter()
	token := authToken(t, user)

	w := doRequest(router, http.MethodPatch,
		"/teams/"+itoa(team.ID)+"/pokemon/"+itoa(seeded["pikachu"].ID), token,
		gin.H{"ability": "static"})

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Pokemon not found in team")
}

func TestGetTeamsListsOnlyOwnTeams(t *testing.T) {
	setupTest(t)
	red := createUser(t, "red", "red@example.com", "trainer")
	blue := createUser(t, "blue", "blue@example.com", "trainer")
	createTeam(t, red.ID, "Red Team")
	createTeam(t, blue.ID, "Blue Team")
	router := newTestRouter()

	w := doRequest(router, http.MethodGet, "/teams", authToken(t, red), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var result []TeamResponse
	decodeBody(t, w, &result)
	require.Len(t, result, 1)
	assert.Equal(t, "Red Team", result[0].Name)
}
