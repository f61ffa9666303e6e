package models

import "time"

// MaxMessageLength bounds the chat message body.
const MaxMessageLength = 500

// Message is a free-text chat entry scoped to a match. Purely observational;
// never affects engine state.
type Message struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	MatchID   string    `gorm:"not null;index" json:"match_id"`
	AuthorID  string    `gorm:"not null" json:"author_id"`
	Body      string    `gorm:"type:varchar(500);not null" json:"body"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
