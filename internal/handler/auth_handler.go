package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"poketeam/backend/internal/apperr"
	"poketeam/backend/internal/config"
	"poketeam/backend/internal/database"
	"poketeam/backend/internal/models"
	"poketeam/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=30" example:"redtrainer"`
	Email    string `json:"email" binding:"required,email" example:"red@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"red@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// GoogleLoginInput carries the Google-issued ID token.
type GoogleLoginInput struct {
	Token string `json:"token" binding:"required"`
}

// UserResponse defines a user's public profile.
type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"redtrainer"`
	Email    string `json:"email" example:"red@example.com"`
}

func newUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// endregion

// region --- Auth Handlers ---

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new trainer account. The password hash is never returned.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		abortWithError(c, err)
		return
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates by email and password and returns a bearer token. Unknown email and wrong password are indistinguishable.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]interface{} "{"token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Router       /auth/login [post]
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A missing user and a wrong password produce the same response so
	// registered emails cannot be enumerated.
	var user models.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		abortWithError(c, apperr.Unauthorized("Invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		abortWithError(c, apperr.Unauthorized("Invalid credentials"))
		return
	}

	token, err := jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  newUserResponse(user),
	})
}

// verifyGoogleToken validates a Google ID token and returns its payload.
// Swapped out in tests.
var verifyGoogleToken = func(c *gin.Context, token string) (*idtoken.Payload, error) {
	return idtoken.Validate(c.Request.Context(), token, config.AppConfig.GoogleClientID)
}

// GoogleLogin godoc
// @Summary      Log in with Google
// @Description  Verifies a Google ID token and finds or creates the matching user by email. First-time users get a random placeholder password hash.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body GoogleLoginInput true "Google ID token"
// @Success      200  {object}  map[string]interface{} "{"success": true, "access_token": "...", "user": {...}}"
// @Failure      400  {object}  map[string]interface{} "{"success": false, "message": "Google authentication failed"}"
// @Router       /auth/google [post]
func GoogleLogin(c *gin.Context) {
	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := verifyGoogleToken(c, input.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Google authentication failed"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Google authentication failed"})
		return
	}
	if name == "" {
		name = email
	}

	var user models.User
	err = database.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The account authenticates via Google from now on; the stored
		// hash only has to be unguessable.
		placeholder, hashErr := randomPasswordHash()
		if hashErr != nil {
			abortWithError(c, hashErr)
			return
		}
		user = models.User{
			Username:     name,
			Email:        email,
			PasswordHash: placeholder,
			GoogleID:     &payload.Subject,
			Role:         "trainer",
		}
		if err := database.DB.Create(&user).Error; err != nil {
			abortWithError(c, err)
			return
		}
	} else if err != nil {
		abortWithError(c, err)
		return
	}

	token, err := jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"access_token": token,
		"user":         newUserResponse(user),
	})
}

func randomPasswordHash() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// endregion
