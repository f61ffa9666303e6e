package realtime

import "encoding/json"

// Event kinds the relay rebroadcasts.
const (
	EventTurn         = "turn"
	EventMatch        = "match"
	EventConfirmation = "confirmation"
	EventChat         = "chat"
	EventTyping       = "typing"
)

// Event is the tagged envelope carried over a match room. Every event is
// advisory: receivers refetch authoritative state from the REST API on
// turn/match/confirmation events, and take chat/typing payloads verbatim.
// The relay itself never reads or writes match state.
type Event struct {
	Type     string          `json:"type"`
	MatchID  string          `json:"match_id"`
	SenderID string          `json:"sender_id"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// ValidType reports whether t is one of the relay's event kinds.
func ValidType(t string) bool {
	switch t {
	case EventTurn, EventMatch, EventConfirmation, EventChat, EventTyping:
		return true
	}
	return false
}
