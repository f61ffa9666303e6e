package models

import "time"

// MaxDartValue is the highest score a single dart can record (treble-20).
const MaxDartValue = 60

// Turn is one recorded scoring action by one player. Turns are append-only:
// a row is written exactly once when the turn processor accepts it and is
// never updated afterwards.
type Turn struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	MatchID string `gorm:"not null;uniqueIndex:idx_turns_match_seq,priority:1;index" json:"match_id"`

	PlayerID string `gorm:"not null;index" json:"player_id"`

	// Seq is monotonic across the whole match, not per player. The unique
	// index on (match_id, seq) is the optimistic backstop against two
	// racing submissions both passing the alternation check.
	Seq int `gorm:"not null;uniqueIndex:idx_turns_match_seq,priority:2" json:"seq"`

	Darts     []int     `gorm:"serializer:json;not null" json:"darts"`
	TurnScore int       `gorm:"not null" json:"turn_score"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
