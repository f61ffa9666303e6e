package services

import (
	"strings"

	"darts-league-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type postMessageRequest struct {
	Body string `json:"body"`
}

// PostMessage appends a chat entry to a match. Chat is observational only —
// it never affects engine state. Durable chat goes through here; the relay
// carries the same payload as a best-effort live event.
func (s *MatchService) PostMessage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	m, err := s.loadMatch(s.DB, c.Params("id"))
	if err != nil {
		return rejection(c, err)
	}
	if !m.HasPlayer(userID) {
		return rejection(c, ErrNotParticipant)
	}

	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message body is required"})
	}
	if len(body) > models.MaxMessageLength {
		return c.Status(400).JSON(fiber.Map{"error": "message body too long"})
	}

	msg := &models.Message{
		ID:       uuid.NewString(),
		MatchID:  m.ID,
		AuthorID: userID,
		Body:     body,
	}
	if err := s.DB.Create(msg).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to store message", "details": err.Error()})
	}
	return c.Status(201).JSON(msg)
}

// ListMessages returns a match's chat history in append order.
func (s *MatchService) ListMessages(c *fiber.Ctx) error {
	matchID := c.Params("id")
	if _, err := s.loadMatch(s.DB, matchID); err != nil {
		return rejection(c, err)
	}

	var msgs []models.Message
	if err := s.DB.Where("match_id = ?", matchID).Order("created_at ASC").Find(&msgs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list messages", "details": err.Error()})
	}
	return c.JSON(msgs)
}
