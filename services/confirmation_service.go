package services

import (
	"errors"
	"log"
	"time"

	"darts-league-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordConfirmation runs the two-party confirmation protocol for a
// completed match. Each participant responds independently and exactly once;
// consensus is evaluated only when both responses are present: any dispute
// moves the match to `disputed`, two confirmations reaffirm `completed`.
// A single response leaves the match awaiting the other party — there is no
// timeout or auto-resolution.
func (s *MatchService) RecordConfirmation(matchID, playerID string, confirmed bool, disputeReason string) (*models.Confirmation, *models.Match, error) {
	defer s.lockMatch(matchID)()

	var (
		conf  *models.Confirmation
		match *models.Match
	)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		m, err := s.loadMatch(tx, matchID)
		if err != nil {
			return err
		}
		if !m.HasPlayer(playerID) {
			return ErrNotParticipant
		}
		if m.Status != models.MatchStatusCompleted {
			return ErrMatchNotCompleted
		}

		c := &models.Confirmation{
			ID:        uuid.NewString(),
			MatchID:   m.ID,
			PlayerID:  playerID,
			Confirmed: confirmed,
			Disputed:  !confirmed,
		}
		if confirmed {
			now := time.Now()
			c.ConfirmedAt = &now
		} else {
			c.DisputeReason = disputeReason
		}

		// The unique index on (match_id, player_id) is the idempotency
		// guard — a resubmission fails here and nothing is overwritten.
		if err := tx.Create(c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyResponded
			}
			return err
		}

		var all []models.Confirmation
		if err := tx.Where("match_id = ?", m.ID).Find(&all).Error; err != nil {
			return err
		}
		if len(all) >= 2 {
			disputed := false
			for _, r := range all {
				if r.Disputed {
					disputed = true
					break
				}
			}
			if disputed {
				m.Status = models.MatchStatusDisputed
				if err := tx.Save(m).Error; err != nil {
					return err
				}
			}
			// both confirmed: match stays completed (idempotent reaffirm)
		}

		conf = c
		match = m
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return conf, match, nil
}

// --- Fiber handlers ---

type submitConfirmationRequest struct {
	Confirmed     bool   `json:"confirmed"`
	DisputeReason string `json:"dispute_reason"`
}

func (s *MatchService) SubmitConfirmation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req submitConfirmationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	conf, m, err := s.RecordConfirmation(c.Params("id"), userID, req.Confirmed, req.DisputeReason)
	if err != nil {
		return rejection(c, err)
	}

	if m.Status == models.MatchStatusDisputed {
		log.Printf("⚠️ Match %s disputed by %s: %s", m.ID, userID, req.DisputeReason)
	}
	return c.Status(201).JSON(fiber.Map{
		"confirmation": conf,
		"match_status": m.Status,
	})
}

// ListConfirmations returns the recorded attestations for a match.
func (s *MatchService) ListConfirmations(c *fiber.Ctx) error {
	matchID := c.Params("id")
	if _, err := s.loadMatch(s.DB, matchID); err != nil {
		return rejection(c, err)
	}

	var confs []models.Confirmation
	if err := s.DB.Where("match_id = ?", matchID).Order("created_at ASC").Find(&confs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list confirmations", "details": err.Error()})
	}
	return c.JSON(confs)
}
