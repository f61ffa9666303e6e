package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"darts-league-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamMatchEventsSSE streams match changes as server-sent events. It is
// the polling fallback behind the websocket relay: clients that lost their
// socket still observe every accepted turn and status change here, because
// the stream reads the authoritative tables rather than the relay.
func (s *MatchService) StreamMatchEventsSSE(c *fiber.Ctx) error {
	matchID := c.Params("id")

	m, err := s.loadMatch(s.DB, matchID)
	if err != nil {
		return rejection(c, err)
	}

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	lastSeq := 0
	lastUpdated := m.UpdatedAt

	var latest models.Turn
	if err := s.DB.
		Where("match_id = ?", matchID).
		Order("seq DESC").
		First(&latest).Error; err == nil {
		lastSeq = latest.Seq
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("SSE init error for match %s: %v", matchID, err)
	}

	// Use the fasthttp stream writer (this replaces Flush)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var newTurns []models.Turn
				if err := s.DB.
					Where("match_id = ? AND seq > ?", matchID, lastSeq).
					Order("seq ASC").
					Find(&newTurns).Error; err != nil {
					log.Printf("SSE turn query error for match %s: %v", matchID, err)
					continue
				}
				for _, t := range newTurns {
					lastSeq = t.Seq
					payload, _ := json.Marshal(t)
					fmt.Fprintf(w, "event: turn\ndata: %s\n\n", payload)
				}

				var current models.Match
				if err := s.DB.First(&current, "id = ?", matchID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						// match declined/cancelled before start — stream ends
						return
					}
					log.Printf("SSE match query error for match %s: %v", matchID, err)
					continue
				}
				if current.UpdatedAt.After(lastUpdated) {
					lastUpdated = current.UpdatedAt
					payload, _ := json.Marshal(current)
					fmt.Fprintf(w, "event: match\ndata: %s\n\n", payload)
				}

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				// Client closed connection
				return
			}
		}
	})

	return nil
}
