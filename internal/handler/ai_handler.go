package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"poketeam/backend/internal/ai"
	"poketeam/backend/internal/apperr"
	"poketeam/backend/internal/database"
	"poketeam/backend/internal/models"
	"strings"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RecommendPreferences narrows the recommendation request.
type RecommendPreferences struct {
	Types        []string `json:"types"`
	Generation   string   `json:"generation"`
	BattleFormat string   `json:"battleFormat"`
}

// CurrentTeamEntry names one Pokémon already on the user's team.
type CurrentTeamEntry struct {
	Name string `json:"name"`
}

// RecommendInput defines the structure for a recommendation request.
type RecommendInput struct {
	Prompt      string               `json:"prompt" binding:"required"`
	Preferences RecommendPreferences `json:"preferences"`
	CurrentTeam []CurrentTeamEntry   `json:"currentTeam"`
}

// RecommendedPokemon is one catalog-verified recommendation.
type RecommendedPokemon struct {
	Name   string                   `json:"name"`
	Sprite string                   `json:"sprite"`
	Types  []string                 `json:"types"`
	Role   string                   `json:"role"`
	Reason string                   `json:"reason"`
	Detail RecommendedPokemonDetail `json:"pokemon"`
}

// RecommendedPokemonDetail is the stat block attached to a recommendation.
type RecommendedPokemonDetail struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	PokeAPIID int              `json:"pokeApiId"`
	Types     []string         `json:"types"`
	BaseStats models.BaseStats `json:"baseStats"`
	Abilities []string         `json:"abilities"`
}

// aiRecommendation is the JSON object requested from the model.
type aiRecommendation struct {
	RecommendedPokemon []struct {
		Name   string `json:"name"`
		Role   string `json:"role"`
		Reason string `json:"reason"`
	} `json:"recommendedPokemon"`
	Summary  string              `json:"summary"`
	Analysis *aiAnalysisSections `json:"analysis"`
}

type aiAnalysisSections struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// aiTeamAnalysis is the JSON object requested for a team analysis.
type aiTeamAnalysis struct {
	OverallRating json.RawMessage `json:"overallRating"`
	Strengths     []string        `json:"strengths"`
	Weaknesses    []string        `json:"weaknesses"`
	Suggestions   []string        `json:"suggestions"`
	TypeCoverage  struct {
		Strong []string `json:"strong"`
		Weak   []string `json:"weak"`
	} `json:"typeCoverage"`
	Strategy string `json:"strategy"`
}

// TeamMemberSprite is a sprite-enriched roster member in an analysis reply.
type TeamMemberSprite struct {
	Name   string   `json:"name"`
	Sprite string   `json:"sprite"`
	Types  []string `json:"types"`
}

// endregion

const aiUnavailableMessage = "AI recommendation service temporarily unavailable"

func spriteURL(pokeAPIID int) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png", pokeAPIID)
}

// region --- Handlers ---

// RecommendTeam godoc
// @Summary      Get an AI team recommendation
// @Description  Asks the generative model for a team suggestion grounded in the stored catalog. Replies that are not valid JSON degrade to a raw-text summary instead of failing.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RecommendInput true "Recommendation request"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse "Prompt is required"
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse "AI service unavailable"
// @Router       /ai/recommend [post]
func RecommendTeam(c *gin.Context) {
	var input RecommendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, apperr.BadRequest("Prompt is required"))
		return
	}

	var catalog []models.Pokemon
	err := database.DB.
		Select("id", "name", "poke_api_id", "types", "base_stats", "abilities", "generation").
		Find(&catalog).Error
	if err != nil {
		abortWithError(c, apperr.Wrap(apperr.KindInternal, aiUnavailableMessage, err))
		return
	}

	prompt := buildRecommendPrompt(input, catalog)

	text, err := ai.Generate(c.Request.Context(), prompt)
	if err != nil {
		abortWithError(c, apperr.Wrap(apperr.KindInternal, aiUnavailableMessage, err))
		return
	}

	recommendation := parseRecommendation(text)

	// Only names that exist in the catalog survive; matches get the sprite
	// and stat block attached.
	enriched := make([]RecommendedPokemon, 0, len(recommendation.RecommendedPokemon))
	for _, rec := range recommendation.RecommendedPokemon {
		for _, pokemon := range catalog {
			if !strings.EqualFold(pokemon.Name, rec.Name) {
				continue
			}
			enriched = append(enriched, RecommendedPokemon{
				Name:   pokemon.Name,
				Sprite: spriteURL(pokemon.PokeAPIID),
				Types:  pokemon.Types,
				Role:   rec.Role,
				Reason: rec.Reason,
				Detail: RecommendedPokemonDetail{
					ID:        pokemon.ID,
					Name:      pokemon.Name,
					PokeAPIID: pokemon.PokeAPIID,
					Types:     pokemon.Types,
					BaseStats: pokemon.BaseStats.Data(),
					Abilities: pokemon.Abilities,
				},
			})
			break
		}
	}

	summary := recommendation.Summary
	if summary == "" {
		summary = "Team recommendation generated successfully"
	}
	analysis := recommendation.Analysis
	if analysis == nil {
		analysis = &aiAnalysisSections{
			Strengths:   []string{"Balanced team composition"},
			Weaknesses:  []string{"Analysis pending"},
			Suggestions: []string{"Consider training and movesets"},
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"prompt":             input.Prompt,
		"recommendedPokemon": enriched,
		"summary":            summary,
		"analysis":           analysis,
		"rawResponse":        text,
	})
}

// AnalyzeTeam godoc
// @Summary      Get an AI analysis of a team
// @Description  Sends the full roster with its customization to the generative model and returns structured feedback. Non-JSON replies degrade to a raw-text strategy.
// @Tags         ai
// @Produce      json
// @Security     BearerAuth
// @Param        teamId path int true "Team ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse "Team is empty"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Team not found"
// @Failure      500  {object}  ErrorResponse "AI service unavailable"
// @Router       /ai/analyze/{teamId} [post]
func AnalyzeTeam(c *gin.Context) {
	teamID, err := teamIDParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if _, err := findOwnedTeam(teamID, currentUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	var roster []models.TeamPokemon
	err = database.DB.
		Where("team_id = ?", teamID).
		Order("slot ASC").
		Preload("Pokemon").
		Find(&roster).Error
	if err != nil {
		abortWithError(c, apperr.Wrap(apperr.KindInternal, aiUnavailableMessage, err))
		return
	}
	if len(roster) == 0 {
		abortWithError(c, apperr.BadRequest("Team is empty"))
		return
	}

	var team models.Team
	if err := database.DB.First(&team, teamID).Error; err != nil {
		abortWithError(c, apperr.Wrap(apperr.KindInternal, aiUnavailableMessage, err))
		return
	}

	prompt := buildAnalyzePrompt(team.Name, roster)

	text, err := ai.Generate(c.Request.Context(), prompt)
	if err != nil {
		abortWithError(c, apperr.Wrap(apperr.KindInternal, aiUnavailableMessage, err))
		return
	}

	analysis := parseTeamAnalysis(text)

	members := make([]TeamMemberSprite, 0, len(roster))
	for _, entry := range roster {
		members = append(members, TeamMemberSprite{
			Name:   entry.Pokemon.Name,
			Sprite: spriteURL(entry.Pokemon.PokeAPIID),
			Types:  entry.Pokemon.Types,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"teamName":       team.Name,
		"currentPokemon": members,
		"analysis":       analysis,
		"rawResponse":    text,
	})
}

// endregion

// region --- Prompt building & parsing ---

func buildRecommendPrompt(input RecommendInput, catalog []models.Pokemon) string {
	var b strings.Builder

	b.WriteString("You are a Pokemon team building expert. Based on the user's request and available Pokemon data, recommend a balanced team of up to 6 Pokemon.\n\n")
	fmt.Fprintf(&b, "User Request: %q\n\n", input.Prompt)

	preferredTypes := "Any"
	if len(input.Preferences.Types) > 0 {
		preferredTypes = strings.Join(input.Preferences.Types, ", ")
	}
	preferredGeneration := input.Preferences.Generation
	if preferredGeneration == "" {
		preferredGeneration = "Any"
	}
	battleFormat := input.Preferences.BattleFormat
	if battleFormat == "" {
		battleFormat = "General"
	}
	fmt.Fprintf(&b, "User Preferences:\n- Preferred Types: %s\n- Preferred Generation: %s\n- Battle Format: %s\n\n",
		preferredTypes, preferredGeneration, battleFormat)

	currentTeam := "Empty"
	if len(input.CurrentTeam) > 0 {
		names := make([]string, len(input.CurrentTeam))
		for i, entry := range input.CurrentTeam {
			names[i] = entry.Name
		}
		currentTeam = strings.Join(names, ", ")
	}
	fmt.Fprintf(&b, "Current Team: %s\n\n", currentTeam)

	sample := catalog
	if len(sample) > 50 {
		sample = sample[:50]
	}
	entries := make([]string, len(sample))
	for i, pokemon := range sample {
		entries[i] = fmt.Sprintf("%s (%s)", pokemon.Name, strings.Join(pokemon.Types, "/"))
	}
	fmt.Fprintf(&b, "Available Pokemon (sample): %s...\n\n", strings.Join(entries, ", "))

	b.WriteString(`Please provide a team recommendation with analysis. Format your response as JSON:
{
  "recommendedPokemon": [
    {
      "name": "pokemon_name",
      "role": "role_description",
      "reason": "why_chosen"
    }
  ],
  "summary": "overall_team_strategy_and_synergy",
  "analysis": {
    "strengths": ["strength1", "strength2", "strength3"],
    "weaknesses": ["weakness1", "weakness2", "weakness3"],
    "suggestions": ["suggestion1", "suggestion2", "suggestion3"]
  }
}

Make sure all Pokemon names exactly match those in the available list.
`)

	return b.String()
}

func buildAnalyzePrompt(teamName string, roster []models.TeamPokemon) string {
	var b strings.Builder

	b.WriteString("Analyze this Pokemon team and provide comprehensive feedback:\n\n")
	fmt.Fprintf(&b, "Team Name: %s\nPokemon:\n", teamName)

	for i, entry := range roster {
		pokemon := entry.Pokemon
		stats := pokemon.BaseStats.Data()

		ability := "Not set"
		if entry.Ability != nil && *entry.Ability != "" {
			ability = *entry.Ability
		}
		nature := "Not set"
		if entry.Nature != nil && *entry.Nature != "" {
			nature = *entry.Nature
		}
		moves := "Not set"
		if len(entry.Moves) > 0 {
			moves = strings.Join(entry.Moves, ", ")
		}

		fmt.Fprintf(&b, "\n%d. %s\n", i+1, pokemon.Name)
		fmt.Fprintf(&b, "   - Types: %s\n", strings.Join(pokemon.Types, "/"))
		fmt.Fprintf(&b, "   - Base Stats: HP:%d ATK:%d DEF:%d SpA:%d SpD:%d SPD:%d\n",
			stats.HP, stats.Attack, stats.Defense, stats.SpecialAttack, stats.SpecialDefense, stats.Speed)
		fmt.Fprintf(&b, "   - Abilities: %s\n", strings.Join(pokemon.Abilities, ", "))
		fmt.Fprintf(&b, "   - Current Ability: %s\n", ability)
		fmt.Fprintf(&b, "   - Nature: %s\n", nature)
		fmt.Fprintf(&b, "   - Moves: %s\n", moves)
	}

	b.WriteString(`
Please analyze this team and provide comprehensive feedback.

Format as JSON:
{
  "overallRating": "score_out_of_10",
  "strengths": ["strength1", "strength2", "strength3"],
  "weaknesses": ["weakness1", "weakness2", "weakness3"],
  "suggestions": ["suggestion1", "suggestion2", "suggestion3"],
  "typeCoverage": {
    "strong": ["types_covered_well"],
    "weak": ["types_poorly_covered"]
  },
  "strategy": "recommended_battle_strategy"
}
`)

	return b.String()
}

// parseRecommendation extracts the structured recommendation from a model
// reply, degrading to a raw-text summary when the reply is not the JSON we
// asked for.
func parseRecommendation(text string) aiRecommendation {
	if payload, ok := ai.ExtractJSON(text); ok {
		var rec aiRecommendation
		if err := json.Unmarshal([]byte(payload), &rec); err == nil {
			return rec
		}
	}

	return aiRecommendation{
		Summary: text,
		Analysis: &aiAnalysisSections{
			Strengths:   []string{"Please refer to the detailed explanation above"},
			Weaknesses:  []string{"Analysis could not be parsed properly"},
			Suggestions: []string{"Try rephrasing your request"},
		},
	}
}

// parseTeamAnalysis extracts the structured analysis, with the same
// degradation rule: the raw text becomes the strategy.
func parseTeamAnalysis(text string) aiTeamAnalysis {
	if payload, ok := ai.ExtractJSON(text); ok {
		var analysis aiTeamAnalysis
		if err := json.Unmarshal([]byte(payload), &analysis); err == nil {
			return analysis
		}
	}

	degraded := aiTeamAnalysis{
		OverallRating: json.RawMessage(`"N/A"`),
		Strengths:     []string{"Analysis could not be parsed"},
		Weaknesses:    []string{"Please try again"},
		Suggestions:   []string{"Refer to the detailed explanation"},
		Strategy:      text,
	}
	degraded.TypeCoverage.Strong = []string{}
	degraded.TypeCoverage.Weak = []string{}
	return degraded
}

// endregion
