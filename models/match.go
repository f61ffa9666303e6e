package models

import (
	"time"
)

// Game types supported by the match engine.
const (
	GameType301      = "301"
	GameType501      = "501"
	GameType701      = "701"
	GameTypeCricket  = "cricket"
	GameTypePractice = "practice"
)

// Match lifecycle statuses.
const (
	MatchStatusScheduled  = "scheduled"
	MatchStatusInProgress = "in_progress"
	MatchStatusCompleted  = "completed"
	MatchStatusDisputed   = "disputed"
	MatchStatusCancelled  = "cancelled"
)

// Match is one head-to-head contest between two players.
// Player1 is always the challenger and always throws first.
type Match struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Player1ID string `gorm:"index;not null" json:"player1_id"`
	Player2ID string `gorm:"index;not null" json:"player2_id"`
	GameType  string `gorm:"type:varchar(16);not null" json:"game_type"`

	// Remaining scores (authoritative, mutated only by accepted turns)
	Player1Score int `gorm:"not null" json:"player1_score"`
	Player2Score int `gorm:"not null" json:"player2_score"`

	Status   string  `gorm:"type:varchar(16);not null;index" json:"status"`
	WinnerID *string `json:"winner_id,omitempty"`
	Notes    string  `gorm:"type:text" json:"notes,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships (cascade lifetime: a match owns its turns/confirmations/messages)
	Turns         []Turn         `json:"turns,omitempty" gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
	Confirmations []Confirmation `json:"confirmations,omitempty" gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
	Messages      []Message      `json:"messages,omitempty" gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
}

// ValidGameType reports whether t is one of the supported game types.
func ValidGameType(t string) bool {
	switch t {
	case GameType301, GameType501, GameType701, GameTypeCricket, GameTypePractice:
		return true
	}
	return false
}

// StartingScore returns the initial remaining score for a game type
// (501 → 501,501; cricket → 0,0).
func StartingScore(gameType string) int {
	switch gameType {
	case GameType301:
		return 301
	case GameType501:
		return 501
	case GameType701:
		return 701
	case GameTypeCricket:
		return 0
	case GameTypePractice:
		return 501 // casual 501 board without the double-out rule
	}
	return 0
}

// HasPlayer reports whether playerID is one of the match's two players.
func (m *Match) HasPlayer(playerID string) bool {
	return playerID == m.Player1ID || playerID == m.Player2ID
}

// Opponent returns the other participant's id.
func (m *Match) Opponent(playerID string) string {
	if playerID == m.Player1ID {
		return m.Player2ID
	}
	return m.Player1ID
}

// ScoreOf returns the remaining score of the given participant.
func (m *Match) ScoreOf(playerID string) int {
	if playerID == m.Player1ID {
		return m.Player1Score
	}
	return m.Player2Score
}

// SetScore updates the remaining score of the given participant in memory.
func (m *Match) SetScore(playerID string, score int) {
	if playerID == m.Player1ID {
		m.Player1Score = score
	} else {
		m.Player2Score = score
	}
}
