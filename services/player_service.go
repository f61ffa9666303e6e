package services

import (
	"strconv"
	"strings"

	"darts-league-system/models"

	"github.com/gofiber/fiber/v2"
)

// ListPlayers returns the local player snapshot table (populated by the
// profile sync worker).
func (s *MatchService) ListPlayers(c *fiber.Ctx) error {
	var players []models.Player
	if err := s.DB.Order("username ASC").Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list players", "details": err.Error()})
	}
	return c.JSON(players)
}

// SearchPlayers searches for opponents within the local snapshot table.
func (s *MatchService) SearchPlayers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	db := s.DB.Model(&models.Player{}).Limit(limit)
	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where("LOWER(username) LIKE ? OR LOWER(display_name) LIKE ?", searchTerm, searchTerm)
	}

	var players []models.Player
	if err := db.Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed", "details": err.Error()})
	}

	// Minimal response shape: the external id is the identifier clients use
	// everywhere else in the API.
	type PlayerSummary struct {
		ExternalUserID string  `json:"external_user_id"`
		Username       string  `json:"username"`
		DisplayName    string  `json:"display_name,omitempty"`
		AvatarURL      *string `json:"avatar_url,omitempty"`
	}
	res := make([]PlayerSummary, len(players))
	for i, p := range players {
		res[i] = PlayerSummary{
			ExternalUserID: p.ExternalUserID,
			Username:       p.Username,
			DisplayName:    p.DisplayName,
			AvatarURL:      p.AvatarURL,
		}
	}
	return c.JSON(res)
}
