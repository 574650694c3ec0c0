package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"

	"poketeam/backend/internal/auth"
	"poketeam/backend/internal/config"
	"poketeam/backend/internal/database"
	"poketeam/backend/internal/models"
	"poketeam/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest gives each test its own in-memory database and a test-mode
// config, and wires them into the package globals the handlers use.
func setupTest(t *testing.T) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
}

// newTestRouter builds a router with the same groups the server wires up.
func newTestRouter() *gin.Engine {
	router := gin.New()

	router.GET("/pokemon", GetPokemon)
	router.GET("/pokemon/:id", GetPokemonByID)
	router.GET("/api/moves/:name", GetMoveByName)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", Register)
		authRoutes.POST("/login", Login)
		authRoutes.POST("/google", GoogleLogin)
	}

	teamRoutes := router.Group("/teams")
	teamRoutes.Use(auth.AuthMiddleware())
	{
		teamRoutes.POST("", CreateTeam)
		teamRoutes.GET("", GetTeams)
		teamRoutes.GET("/:id", GetTeamByID)
		teamRoutes.PUT("/:id", UpdateTeam)
		teamRoutes.DELETE("/:id", DeleteTeam)
		teamRoutes.POST("/:id/pokemon", AddPokemon)
		teamRoutes.DELETE("/:id/pokemon/:pokemonId", RemovePokemon)
		teamRoutes.PATCH("/:id/pokemon/:pokemonId", EditPokemonDetails)
	}

	aiRoutes := router.Group("/ai")
	aiRoutes.Use(auth.AuthMiddleware())
	{
		aiRoutes.POST("/recommend", RecommendTeam)
		aiRoutes.POST("/analyze/:id", AnalyzeTeam)
	}

	adminRoutes := router.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
	{
		adminRoutes.GET("/moves", GetMoves)
		adminRoutes.POST("/moves", CreateMove)
		adminRoutes.PUT("/moves/:id", UpdateMove)
		adminRoutes.DELETE("/moves/:id", DeleteMove)
	}

	return router
}

func createUser(t *testing.T, username, email, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Username: username, Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func authToken(t *testing.T, user models.User) string {
	t.Helper()
	token, err := jwt.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

func seedPokemon(t *testing.T) map[string]models.Pokemon {
	t.Helper()

	specs := []struct {
		name       string
		pokeAPIID  int
		types      []string
		generation string
	}{
		{"bulbasaur", 1, []string{"grass", "poison"}, "generation-i"},
		{"charmander", 4, []string{"fire"}, "generation-i"},
		{"charizard", 6, []string{"fire", "flying"}, "generation-i"},
		{"pikachu", 25, []string{"electric"}, "generation-i"},
		{"chikorita", 152, []string{"grass"}, "generation-ii"},
	}

	seeded := make(map[string]models.Pokemon, len(specs))
	for _, spec := range specs {
		pokemon := models.Pokemon{
			Name:       spec.name,
			PokeAPIID:  spec.pokeAPIID,
			Types:      datatypes.NewJSONSlice(spec.types),
			Generation: spec.generation,
			BaseStats: datatypes.NewJSONType(models.BaseStats{
				HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65, Speed: 45,
			}),
			Abilities: datatypes.NewJSONSlice([]string{"overgrow"}),
		}
		require.NoError(t, database.DB.Create(&pokemon).Error)
		seeded[spec.name] = pokemon
	}
	return seeded
}

// doRequest performs a request against the router, marshalling body when
// present and attaching the bearer token when given.
func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "body: %s", w.Body.String())
}
