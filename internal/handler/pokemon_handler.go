package handler

import (
	"net/http"
	"poketeam/backend/internal/apperr"
	"poketeam/backend/internal/database"
	"poketeam/backend/internal/models"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetPokemon godoc
// @Summary      List the Pokémon catalog
// @Description  Lists all Pokémon, optionally filtered by generation and a search term. Numeric search matches the external catalog id exactly; text search matches the name as a case-insensitive substring.
// @Tags         pokemon
// @Produce      json
// @Param        generation query string false "Generation tag (e.g. generation-i)"
// @Param        search     query string false "Numeric external id or name fragment"
// @Success      200  {array}   models.Pokemon
// @Failure      500  {object}  ErrorResponse
// @Router       /pokemon [get]
func GetPokemon(c *gin.Context) {
	generation := c.Query("generation")
	search := c.Query("search")

	query := database.DB.Model(&models.Pokemon{})

	if generation != "" {
		query = query.Where("generation = ?", generation)
	}

	if search != "" {
		if id, err := strconv.Atoi(search); err == nil {
			query = query.Where("poke_api_id = ?", id)
		} else {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
	}

	var pokemons []models.Pokemon
	if err := query.Order("poke_api_id ASC").Find(&pokemons).Error; err != nil {
		abortWithError(c, err)
		return
	}

	if pokemons == nil {
		pokemons = []models.Pokemon{}
	}
	c.JSON(http.StatusOK, pokemons)
}

// GetPokemonByID godoc
// @Summary      Get a single Pokémon
// @Description  Retrieves one Pokémon by its internal id.
// @Tags         pokemon
// @Produce      json
// @Param        id   path      int  true  "Pokemon ID"
// @Success      200  {object}  models.Pokemon
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /pokemon/{id} [get]
func GetPokemonByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		abortWithError(c, apperr.BadRequest("Invalid ID"))
		return
	}

	var pokemon models.Pokemon
	if err := database.DB.First(&pokemon, uint(id)).Error; err != nil {
		abortWithError(c, apperr.NotFound("Pokemon not found"))
		return
	}

	c.JSON(http.StatusOK, pokemon)
}
