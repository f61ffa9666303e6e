package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"darts-league-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchService owns the head-to-head match engine: lifecycle transitions,
// the turn processor and the confirmation protocol. All mutations of one
// match are serialized through a per-match lock on top of the database
// transaction (see submit paths in turn_service.go / confirmation_service.go).
type MatchService struct {
	DB *gorm.DB

	mu         sync.Mutex
	matchLocks map[string]*sync.Mutex
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{
		DB:         db,
		matchLocks: make(map[string]*sync.Mutex),
	}
}

// lockMatch serializes engine writes per match id. Returns the unlock func.
func (s *MatchService) lockMatch(matchID string) func() {
	s.mu.Lock()
	l, ok := s.matchLocks[matchID]
	if !ok {
		l = &sync.Mutex{}
		s.matchLocks[matchID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *MatchService) loadMatch(tx *gorm.DB, id string) (*models.Match, error) {
	var m models.Match
	if err := tx.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

// CreateChallenge creates a match between challenger and opponent. Regular
// game types start in `scheduled` awaiting the opponent's acceptance;
// practice matches are self-initiated and start in progress immediately.
func (s *MatchService) CreateChallenge(challengerID, opponentID, gameType, notes string) (*models.Match, error) {
	if !models.ValidGameType(gameType) {
		return nil, fmt.Errorf("unsupported game type %q", gameType)
	}
	if challengerID == opponentID {
		return nil, errors.New("a match needs two distinct players")
	}

	// Both players must exist in the local snapshot table.
	var count int64
	if err := s.DB.Model(&models.Player{}).
		Where("external_user_id IN ?", []string{challengerID, opponentID}).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count != 2 {
		return nil, errors.New("unknown player reference")
	}

	status := models.MatchStatusScheduled
	if gameType == models.GameTypePractice {
		status = models.MatchStatusInProgress
	}

	start := models.StartingScore(gameType)
	m := &models.Match{
		ID:           uuid.NewString(),
		Player1ID:    challengerID,
		Player2ID:    opponentID,
		GameType:     gameType,
		Player1Score: start,
		Player2Score: start,
		Status:       status,
		Notes:        notes,
	}
	if err := s.DB.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Accept moves a scheduled match to in progress. Invitee only.
func (s *MatchService) Accept(matchID, playerID string) (*models.Match, error) {
	defer s.lockMatch(matchID)()

	var out *models.Match
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		m, err := s.loadMatch(tx, matchID)
		if err != nil {
			return err
		}
		if m.Player2ID != playerID {
			return ErrNotParticipant
		}
		if m.Status != models.MatchStatusScheduled {
			return ErrMatchNotScheduled
		}
		m.Status = models.MatchStatusInProgress
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}

// Decline removes a scheduled match. Invitee only; the row is deleted,
// not archived.
func (s *MatchService) Decline(matchID, playerID string) error {
	defer s.lockMatch(matchID)()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		m, err := s.loadMatch(tx, matchID)
		if err != nil {
			return err
		}
		if m.Player2ID != playerID {
			return ErrNotParticipant
		}
		if m.Status != models.MatchStatusScheduled {
			return ErrMatchNotScheduled
		}
		return tx.Delete(m).Error
	})
}

// Cancel handles both cancellation flavours: before acceptance the match is
// deleted outright; while in progress it becomes a forfeiture — status
// `cancelled`, completion timestamp stamped, no winner.
func (s *MatchService) Cancel(matchID, playerID string) (*models.Match, error) {
	defer s.lockMatch(matchID)()

	var out *models.Match
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		m, err := s.loadMatch(tx, matchID)
		if err != nil {
			return err
		}
		if !m.HasPlayer(playerID) {
			return ErrNotParticipant
		}
		switch m.Status {
		case models.MatchStatusScheduled:
			return tx.Delete(m).Error
		case models.MatchStatusInProgress:
			now := time.Now()
			m.Status = models.MatchStatusCancelled
			m.CompletedAt = &now
			if err := tx.Save(m).Error; err != nil {
				return err
			}
			out = m
			return nil
		}
		return ErrMatchNotInProgress
	})
	return out, err
}

// GetByID loads a match with its turn and confirmation history.
func (s *MatchService) GetByID(matchID string) (*models.Match, error) {
	var m models.Match
	err := s.DB.
		Preload("Turns", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Confirmations").
		First(&m, "id = ?", matchID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

// --- Fiber handlers ---

type createMatchRequest struct {
	OpponentID string `json:"opponent_id"`
	GameType   string `json:"game_type"`
	Notes      string `json:"notes"`
}

func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req createMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.OpponentID == "" || req.GameType == "" {
		return c.Status(400).JSON(fiber.Map{"error": "opponent_id and game_type are required"})
	}

	m, err := s.CreateChallenge(userID, req.OpponentID, req.GameType, req.Notes)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("🎯 Match %s created: %s vs %s (%s)", m.ID, m.Player1ID, m.Player2ID, m.GameType)
	return c.Status(201).JSON(m)
}

func (s *MatchService) GetMatch(c *fiber.Ctx) error {
	m, err := s.GetByID(c.Params("id"))
	if err != nil {
		return rejection(c, err)
	}
	return c.JSON(m)
}

// ListMatches returns the caller's matches, optionally filtered by status.
func (s *MatchService) ListMatches(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	db := s.DB.Where("player1_id = ? OR player2_id = ?", userID, userID)
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var matches []models.Match
	if err := db.Order("created_at DESC").Find(&matches).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list matches", "details": err.Error()})
	}
	return c.JSON(matches)
}

func (s *MatchService) AcceptMatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	m, err := s.Accept(c.Params("id"), userID)
	if err != nil {
		return rejection(c, err)
	}
	return c.JSON(m)
}

func (s *MatchService) DeclineMatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	if err := s.Decline(c.Params("id"), userID); err != nil {
		return rejection(c, err)
	}
	return c.JSON(fiber.Map{"message": "match declined"})
}

func (s *MatchService) CancelMatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	m, err := s.Cancel(c.Params("id"), userID)
	if err != nil {
		return rejection(c, err)
	}
	if m == nil {
		return c.JSON(fiber.Map{"message": "match cancelled"})
	}
	return c.JSON(m)
}
