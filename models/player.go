package models

import (
	"time"
)

// Player is a local snapshot of the identity provider's user record,
// owned solely by the darts service and populated via the sync worker.
// The engine only reads it (participant lookups, /players listings).
type Player struct {
	ID             string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string  `gorm:"uniqueIndex;not null" json:"external_user_id"` // profile service UUID
	Username       string  `gorm:"index;not null" json:"username"`
	DisplayName    string  `json:"display_name,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
