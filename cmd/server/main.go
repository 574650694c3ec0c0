package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"poketeam/backend/internal/ai"
	"poketeam/backend/internal/auth"
	"poketeam/backend/internal/config"
	"poketeam/backend/internal/database"
	"poketeam/backend/internal/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "poketeam/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           PokeTeam API
// @version         1.0
// @description     Pokémon catalog and team-building API.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// The AI routes stay up without a key; they answer with the
	// service-unavailable message until one is configured.
	if err := ai.Init(context.Background(), config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel); err != nil {
		log.Printf("Warning: Gemini client not initialized: %v", err)
	}

	router := gin.Default()
	router.Use(cors.Default())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Public catalog routes
	router.GET("/pokemon", handler.GetPokemon)
	router.GET("/pokemon/:id", handler.GetPokemonByID)
	router.GET("/api/moves/:name", handler.GetMoveByName)

	// Auth routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", handler.Register)
		authRoutes.POST("/login", handler.Login)
		authRoutes.POST("/google", handler.GoogleLogin)
	}

	// Team routes (protected)
	teamRoutes := router.Group("/teams")
	teamRoutes.Use(auth.AuthMiddleware())
	{
		teamRoutes.POST("", handler.CreateTeam)
		teamRoutes.GET("", handler.GetTeams)
		teamRoutes.GET("/:id", handler.GetTeamByID)
		teamRoutes.PUT("/:id", handler.UpdateTeam)
		teamRoutes.DELETE("/:id", handler.DeleteTeam)
		teamRoutes.POST("/:id/pokemon", handler.AddPokemon)
		teamRoutes.DELETE("/:id/pokemon/:pokemonId", handler.RemovePokemon)
		teamRoutes.PATCH("/:id/pokemon/:pokemonId", handler.EditPokemonDetails)
	}

	// AI assistant routes (protected)
	aiRoutes := router.Group("/ai")
	aiRoutes.Use(auth.AuthMiddleware())
	{
		aiRoutes.POST("/recommend", handler.RecommendTeam)
		aiRoutes.POST("/analyze/:id", handler.AnalyzeTeam)
	}

	// Admin catalog curation (protected by auth and admin check)
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
	{
		moves := adminRoutes.Group("/moves")
		{
			moves.GET("", handler.GetMoves)
			moves.POST("", handler.CreateMove)
			moves.PUT("/:id", handler.UpdateMove)
			moves.DELETE("/:id", handler.DeleteMove)
		}
	}

	addr := ":" + config.AppConfig.Port
	fmt.Println("Server is running on " + addr)
	fmt.Println("Swagger UI is available at http://localhost" + addr + "/swagger/index.html")
	log.Fatal(router.Run(addr))
}
