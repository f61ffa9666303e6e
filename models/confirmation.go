package models

import "time"

// Confirmation is one player's attestation about a completed match's result.
// At most one row exists per (match, player); a second response from the
// same player is rejected, never overwritten.
type Confirmation struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	MatchID  string `gorm:"not null;uniqueIndex:idx_confirmations_match_player,priority:1" json:"match_id"`
	PlayerID string `gorm:"not null;uniqueIndex:idx_confirmations_match_player,priority:2" json:"player_id"`

	// Confirmed and Disputed are mutually exclusive.
	Confirmed bool `gorm:"not null" json:"confirmed"`
	Disputed  bool `gorm:"not null" json:"disputed"`

	DisputeReason string     `gorm:"type:text" json:"dispute_reason,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
}
