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

// MoveInput defines the structure for creating or updating a move.
type MoveInput struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required,oneof=physical special status"`
	Type        string `json:"type"`
	Power       *int   `json:"power"`
	Accuracy    *int   `json:"accuracy"`
	PP          *int   `json:"pp"`
	Description string `json:"description"`
}

// MoveResponse is the public shape of a move.
type MoveResponse struct {
	Name        string `json:"name"`
	Type        string `json:"type"`     // elemental type (fire, water, ...)
	Category    string `json:"category"` // physical, special or status
	Power       *int   `json:"power"`
	Accuracy    *int   `json:"accuracy"`
	PP          *int   `json:"pp"`
	Description string `json:"description"`
}

func newMoveResponse(move models.Move) MoveResponse {
	return MoveResponse{
		Name:        move.Name,
		Type:        move.Type,
		Category:    move.Category,
		Power:       move.Power,
		Accuracy:    move.Accuracy,
		PP:          move.PP,
		Description: move.Description,
	}
}

// GetMoveByName godoc
// @Summary      Look up a move by name
// @Description  Finds a move by name, tolerating hyphen/space and casing differences between the catalog source and in-app references.
// @Tags         moves
// @Produce      json
// @Param        name path string true "Move name"
// @Success      200  {object}  MoveResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/moves/{name} [get]
func GetMoveByName(c *gin.Context) {
	name := c.Param("name")

	// The catalog source stores hyphenated lowercase names while in-app
	// references may use spaces or title case. Comparison is case folded,
	// so only the separator variants remain to try.
	variations := []string{
		name,
		strings.ReplaceAll(name, "-", " "),
		strings.ReplaceAll(name, " ", "-"),
	}

	var move models.Move
	for _, variation := range variations {
		err := database.DB.Where("LOWER(name) = ?", strings.ToLower(variation)).First(&move).Error
		if err == nil {
			c.JSON(http.StatusOK, newMoveResponse(move))
			return
		}
	}

	abortWithError(c, apperr.NotFound("Move not found"))
}

// GetMoves godoc
// @Summary      List moves
// @Description  Retrieves a paginated list of moves, optionally filtered by a name fragment.
// @Tags         admin-moves
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name fragment"
// @Param        page   query int    false "Page number" default(1)
// @Param        limit  query int    false "Items per page" default(50)
// @Success      200  {object}  PaginatedResponse[models.Move]
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/moves [get]
func GetMoves(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	query := database.DB.Model(&models.Move{}).Order("name ASC")
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	response, err := Paginate[models.Move](query, page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateMove godoc
// @Summary      Create a move
// @Description  Adds a move to the catalog for curation purposes.
// @Tags         admin-moves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MoveInput true "Move Info"
// @Success      201  {object}  models.Move
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/moves [post]
func CreateMove(c *gin.Context) {
	var input MoveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	move := models.Move{
		Name:        input.Name,
		Category:    input.Category,
		Type:        input.Type,
		Power:       input.Power,
		Accuracy:    input.Accuracy,
		PP:          input.PP,
		Description: input.Description,
	}
	if err := database.DB.Create(&move).Error; err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, move)
}

// UpdateMove godoc
// @Summary      Update a move
// @Description  Updates an existing catalog move.
// @Tags         admin-moves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int       true  "Move ID"
// @Param        input body      MoveInput true  "New Move Info"
// @Success      200  {object}  models.Move
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Move not found"
// @Router       /admin/moves/{id} [put]
func UpdateMove(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		abortWithError(c, apperr.BadRequest("Invalid ID"))
		return
	}

	var input MoveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var move models.Move
	if err := database.DB.First(&move, uint(id)).Error; err != nil {
		abortWithError(c, apperr.NotFound("Move not found"))
		return
	}

	updates := models.Move{
		Name:        input.Name,
		Category:    input.Category,
		Type:        input.Type,
		Power:       input.Power,
		Accuracy:    input.Accuracy,
		PP:          input.PP,
		Description: input.Description,
	}
	if err := database.DB.Model(&move).Updates(updates).Error; err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, move)
}

// DeleteMove godoc
// @Summary      Delete a move
// @Description  Removes a move from the catalog.
// @Tags         admin-moves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Move ID"
// @Success      200  {object}  map[string]string "{"message": "Move deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Move not found"
// @Router       /admin/moves/{id} [delete]
func DeleteMove(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		abortWithError(c, apperr.BadRequest("Invalid ID"))
		return
	}

	result := database.DB.Delete(&models.Move{}, uint(id))
	if result.Error != nil {
		abortWithError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		abortWithError(c, apperr.NotFound("Move not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Move deleted"})
}
