package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"darts-league-system/models"
	"darts-league-system/scoring"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProcessTurn is the turn processor: it validates a submitted turn against
// the score rules and, if accepted, persists the new turn and the updated
// match scores as one transaction. Evaluate-then-persist is a single atomic
// unit — the per-match lock serializes concurrent submissions and the
// (match_id, seq) unique index rejects anything that slips past stale state.
//
// Bust policy: a bust is rejected outright. No turn row is written, no score
// changes, and the same player may resubmit immediately.
func (s *MatchService) ProcessTurn(matchID, playerID string, darts []int) (*models.Match, *models.Turn, bool, error) {
	if err := scoring.ValidateDarts(darts); err != nil {
		return nil, nil, false, fmt.Errorf("%w: %s", ErrInvalidDarts, err.Error())
	}

	defer s.lockMatch(matchID)()

	var (
		match      *models.Match
		turn       *models.Turn
		isCheckout bool
	)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		m, err := s.loadMatch(tx, matchID)
		if err != nil {
			return err
		}
		if !m.HasPlayer(playerID) {
			return ErrNotParticipant
		}
		if m.Status != models.MatchStatusInProgress {
			return ErrMatchNotInProgress
		}

		// Turn alternation, derived from the last recorded turn. Player1
		// always throws first.
		lastSeq := 0
		expected := m.Player1ID
		var last models.Turn
		err = tx.Where("match_id = ?", m.ID).Order("seq DESC").First(&last).Error
		switch {
		case err == nil:
			lastSeq = last.Seq
			expected = m.Opponent(last.PlayerID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first turn of the match
		default:
			return err
		}
		if playerID != expected {
			return ErrNotYourTurn
		}

		outcome := scoring.Evaluate(m.GameType, m.ScoreOf(playerID), darts)
		if outcome.Kind == scoring.KindBust {
			return fmt.Errorf("%w: %s", ErrBust, outcome.Reason)
		}

		t := &models.Turn{
			ID:        uuid.NewString(),
			MatchID:   m.ID,
			PlayerID:  playerID,
			Seq:       lastSeq + 1,
			Darts:     darts,
			TurnScore: scoring.TurnTotal(darts),
		}
		if err := tx.Create(t).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTurnConflict
			}
			return err
		}

		m.SetScore(playerID, outcome.NewRemaining)
		if outcome.Kind == scoring.KindCheckout {
			now := time.Now()
			m.Status = models.MatchStatusCompleted
			m.WinnerID = &playerID
			m.CompletedAt = &now
			isCheckout = true
		}
		if err := tx.Save(m).Error; err != nil {
			return err
		}

		match = m
		turn = t
		return nil
	})
	if err != nil {
		return nil, nil, false, err
	}
	return match, turn, isCheckout, nil
}

// --- Fiber handlers ---

type submitTurnRequest struct {
	Darts []int `json:"darts"`
}

// SubmitTurn handles POST /matches/:id/turns. The response carries the
// updated authoritative match; the caller is responsible for rebroadcasting
// the change over the relay so the opponent refetches.
func (s *MatchService) SubmitTurn(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req submitTurnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	m, t, isCheckout, err := s.ProcessTurn(c.Params("id"), userID, req.Darts)
	if err != nil {
		return rejection(c, err)
	}

	if isCheckout {
		log.Printf("🏁 Match %s completed: winner %s", m.ID, userID)
	}
	return c.Status(201).JSON(fiber.Map{
		"match":       m,
		"turn":        t,
		"is_checkout": isCheckout,
	})
}

// ListTurns returns the append-only turn history in throw order.
func (s *MatchService) ListTurns(c *fiber.Ctx) error {
	matchID := c.Params("id")
	if _, err := s.loadMatch(s.DB, matchID); err != nil {
		return rejection(c, err)
	}

	var turns []models.Turn
	if err := s.DB.Where("match_id = ?", matchID).Order("seq ASC").Find(&turns).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list turns", "details": err.Error()})
	}
	return c.JSON(turns)
}
